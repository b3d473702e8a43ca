package models

import (
	"time"
)

// UpdateType describes what changed in the building state
type UpdateType string

const (
	// UpdateBooked follows a same-floor or cross-floor booking
	UpdateBooked UpdateType = "booked"
	// UpdateRandomized follows a random occupancy simulation
	UpdateRandomized UpdateType = "randomized"
	// UpdateReset follows a reset of the whole building
	UpdateReset UpdateType = "reset"
)

// UpdateEvent is emitted after every state mutation so displays can refresh
type UpdateEvent struct {
	Type    UpdateType `json:"type"`
	Booking *Booking   `json:"booking,omitempty"` // nil for resets
	At      time.Time  `json:"at"`
}

// NewUpdateEvent creates an update event stamped with at
func NewUpdateEvent(t UpdateType, booking *Booking, at time.Time) UpdateEvent {
	return UpdateEvent{
		Type:    t,
		Booking: booking,
		At:      at,
	}
}
