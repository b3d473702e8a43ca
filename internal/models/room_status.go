package models

// RoomStatus represents the current status of a room for display purposes
type RoomStatus string

const (
	// RoomStatusAvailable means the room is free
	RoomStatusAvailable RoomStatus = "available"
	// RoomStatusBookedNow means the room was assigned by the latest booking
	RoomStatusBookedNow RoomStatus = "booked-now"
	// RoomStatusBooked means the room was assigned by an earlier booking
	RoomStatusBooked RoomStatus = "booked"
)

// String returns the string representation of a room status
func (s RoomStatus) String() string {
	return string(s)
}

// RoomView is a single cell of the building grid
type RoomView struct {
	ID     RoomID     `json:"id"`
	Status RoomStatus `json:"status"`
}

// FloorView is one row of the building grid
type FloorView struct {
	Floor int        `json:"floor"`
	Rooms []RoomView `json:"rooms"`
}
