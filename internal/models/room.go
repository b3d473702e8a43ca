package models

import "strconv"

// RoomID identifies a room by encoding its floor and position as floor*100 + position.
// Floor 10 uses ids 1001-1007, which the same encoding yields.
type RoomID int

// Floor returns the floor the room is on
func (r RoomID) Floor() int {
	return int(r) / 100
}

// Position returns the room's horizontal index within its floor, starting at 1
func (r RoomID) Position() int {
	return int(r) % 100
}

// String returns the room number as displayed to guests
func (r RoomID) String() string {
	return strconv.Itoa(int(r))
}

// NewRoomID builds the id for the room at the given floor and position
func NewRoomID(floor, position int) RoomID {
	return RoomID(floor*100 + position)
}
