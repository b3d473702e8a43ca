package models

import (
	"time"
)

// AllocationPolicy names the strategy that produced a booking
type AllocationPolicy string

const (
	// PolicySameFloor is a contiguous run of rooms on a single floor
	PolicySameFloor AllocationPolicy = "same-floor"
	// PolicyCrossFloor is the lowest-numbered free rooms across all floors
	PolicyCrossFloor AllocationPolicy = "cross-floor"
	// PolicyRandom is a random occupancy simulation
	PolicyRandom AllocationPolicy = "random"
)

// Booking is the result of a single allocation
type Booking struct {
	ID         string           `json:"id"`
	Rooms      []RoomID         `json:"rooms"`
	Requested  int              `json:"requested"`
	Policy     AllocationPolicy `json:"policy"`
	TravelTime int              `json:"travel_time"` // between first and last room
	CreatedAt  time.Time        `json:"created_at"`
}

// Partial returns true if fewer rooms were allocated than requested
func (b *Booking) Partial() bool {
	return len(b.Rooms) < b.Requested
}

// Shortfall returns how many requested rooms could not be allocated
func (b *Booking) Shortfall() int {
	if !b.Partial() {
		return 0
	}
	return b.Requested - len(b.Rooms)
}

// First returns the first allocated room, or 0 for an empty booking
func (b *Booking) First() RoomID {
	if len(b.Rooms) == 0 {
		return 0
	}
	return b.Rooms[0]
}

// Last returns the last allocated room, or 0 for an empty booking
func (b *Booking) Last() RoomID {
	if len(b.Rooms) == 0 {
		return 0
	}
	return b.Rooms[len(b.Rooms)-1]
}

// Contains reports whether the room is part of the booking
func (b *Booking) Contains(room RoomID) bool {
	for _, r := range b.Rooms {
		if r == room {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the booking
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	c.Rooms = append([]RoomID(nil), b.Rooms...)
	return &c
}
