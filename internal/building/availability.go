package building

import (
	"sort"

	"github.com/navikt/roomalloc/internal/models"
)

// Availability holds the free rooms per floor.
// Each floor keeps its rooms in position order; removals never reorder, so
// neighbours in a floor's slice are the candidates for a contiguous cluster.
type Availability struct {
	floors []int
	rooms  map[int][]models.RoomID
}

// NewAvailability creates an availability state where every room of the building is free
func NewAvailability(b *Building) *Availability {
	a := &Availability{
		floors: b.Floors(),
		rooms:  make(map[int][]models.RoomID, len(b.floors)),
	}
	for _, f := range a.floors {
		a.rooms[f] = b.Rooms(f)
	}
	return a
}

// Floors returns the floor numbers in ascending order
func (a *Availability) Floors() []int {
	return append([]int(nil), a.floors...)
}

// Floor returns the free rooms on a floor in position order
func (a *Availability) Floor(floor int) []models.RoomID {
	return append([]models.RoomID(nil), a.rooms[floor]...)
}

// All returns every free room sorted ascending by id
func (a *Availability) All() []models.RoomID {
	all := make([]models.RoomID, 0, a.Count())
	for _, f := range a.floors {
		all = append(all, a.rooms[f]...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// Count returns the total number of free rooms
func (a *Availability) Count() int {
	n := 0
	for _, rooms := range a.rooms {
		n += len(rooms)
	}
	return n
}

// Contains reports whether the room is free
func (a *Availability) Contains(id models.RoomID) bool {
	for _, r := range a.rooms[id.Floor()] {
		if r == id {
			return true
		}
	}
	return false
}

// Remove marks the rooms as taken, preserving the order of what remains
func (a *Availability) Remove(ids []models.RoomID) {
	taken := make(map[models.RoomID]struct{}, len(ids))
	touched := make(map[int]struct{})
	for _, id := range ids {
		taken[id] = struct{}{}
		touched[id.Floor()] = struct{}{}
	}

	for f := range touched {
		rooms, ok := a.rooms[f]
		if !ok {
			continue
		}
		kept := make([]models.RoomID, 0, len(rooms))
		for _, r := range rooms {
			if _, gone := taken[r]; !gone {
				kept = append(kept, r)
			}
		}
		a.rooms[f] = kept
	}
}

// Snapshot returns a copy of the free rooms keyed by floor
func (a *Availability) Snapshot() map[int][]models.RoomID {
	snap := make(map[int][]models.RoomID, len(a.rooms))
	for f, rooms := range a.rooms {
		snap[f] = append([]models.RoomID{}, rooms...)
	}
	return snap
}
