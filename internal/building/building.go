// Package building describes the fixed layout of the hotel and the set of rooms still free
package building

import (
	"errors"
	"fmt"

	"github.com/navikt/roomalloc/internal/models"
)

// MaxRoomsPerFloor is bounded by the floor*100 + position encoding
const MaxRoomsPerFloor = 99

// Common errors
var (
	ErrNoFloors    = errors.New("building needs at least one floor")
	ErrInvalidSize = errors.New("invalid number of rooms on floor")
)

// Building is the immutable mapping from floor number to the ordered rooms on that floor
type Building struct {
	floors []int
	rooms  map[int][]models.RoomID
	index  map[models.RoomID]struct{}
}

// New creates a building where floor i+1 has roomsPerFloor[i] rooms numbered from position 1
func New(roomsPerFloor ...int) (*Building, error) {
	if len(roomsPerFloor) == 0 {
		return nil, ErrNoFloors
	}

	b := &Building{
		floors: make([]int, 0, len(roomsPerFloor)),
		rooms:  make(map[int][]models.RoomID, len(roomsPerFloor)),
		index:  make(map[models.RoomID]struct{}),
	}

	for i, count := range roomsPerFloor {
		floor := i + 1
		if count <= 0 || count > MaxRoomsPerFloor {
			return nil, fmt.Errorf("floor %d with %d rooms: %w", floor, count, ErrInvalidSize)
		}

		rooms := make([]models.RoomID, count)
		for p := 1; p <= count; p++ {
			id := models.NewRoomID(floor, p)
			rooms[p-1] = id
			b.index[id] = struct{}{}
		}
		b.floors = append(b.floors, floor)
		b.rooms[floor] = rooms
	}

	return b, nil
}

// Standard returns the hotel layout: floors 1-9 with 10 rooms each and floor 10 with 7
func Standard() *Building {
	b, err := New(10, 10, 10, 10, 10, 10, 10, 10, 10, 7)
	if err != nil {
		panic(err)
	}
	return b
}

// Floors returns the floor numbers in ascending order
func (b *Building) Floors() []int {
	return append([]int(nil), b.floors...)
}

// Rooms returns the rooms on a floor ordered by position
func (b *Building) Rooms(floor int) []models.RoomID {
	return append([]models.RoomID(nil), b.rooms[floor]...)
}

// All returns every room in the building, ordered by floor then position
func (b *Building) All() []models.RoomID {
	all := make([]models.RoomID, 0, len(b.index))
	for _, f := range b.floors {
		all = append(all, b.rooms[f]...)
	}
	return all
}

// Contains reports whether the room exists in the building
func (b *Building) Contains(id models.RoomID) bool {
	_, ok := b.index[id]
	return ok
}

// Total returns the number of rooms in the building
func (b *Building) Total() int {
	return len(b.index)
}
