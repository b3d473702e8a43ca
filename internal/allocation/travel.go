package allocation

import "github.com/navikt/roomalloc/internal/models"

// FloorTransitCost is the cost of moving one floor up or down, in same-floor steps
const FloorTransitCost = 2

// TravelTime returns the walking cost between two rooms.
// Rooms on the same floor cost one step per position between them. Across
// floors the guest walks to the stairs, changes floors and walks back out.
func TravelTime(a, b models.RoomID) int {
	if a.Floor() == b.Floor() {
		return abs(a.Position() - b.Position())
	}
	return (a.Position() - 1) + FloorTransitCost*abs(a.Floor()-b.Floor()) + (b.Position() - 1)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
