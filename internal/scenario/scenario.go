// Package scenario replays scripted booking sequences against a fresh session.
package scenario

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/navikt/roomalloc/internal/allocation"
	"github.com/navikt/roomalloc/internal/building"
	"github.com/navikt/roomalloc/internal/models"
	"gopkg.in/yaml.v3"
)

// Step operations
const (
	OpBook      = "book"
	OpRandomize = "randomize"
	OpReset     = "reset"
)

// ValidOps is the set of recognized step operations.
var ValidOps = map[string]bool{OpBook: true, OpRandomize: true, OpReset: true}

// ErrNoSteps is returned for scenarios without any steps
var ErrNoSteps = errors.New("scenario has no steps")

// Scenario is a scripted sequence of operations, loadable from a YAML file.
// An empty Floors list selects the standard hotel layout; a zero Seed seeds from the clock.
type Scenario struct {
	Seed               int64  `yaml:"seed"`
	MaxRoomsPerBooking int    `yaml:"max_rooms_per_booking"`
	Floors             []int  `yaml:"floors"`
	Steps              []Step `yaml:"steps"`
}

// Step is one operation. Count is ignored for resets.
type Step struct {
	Op    string `yaml:"op"`
	Count int    `yaml:"count"`
}

// Result is the outcome of a single step
type Result struct {
	Index   int
	Step    Step
	Booking *models.Booking
	Err     error
}

// Parse decodes and validates a YAML scenario
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a YAML scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Validate checks the step operations and options.
// Step counts are not checked here; invalid counts show up as step errors.
func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return ErrNoSteps
	}
	if s.MaxRoomsPerBooking < 0 {
		return fmt.Errorf("max_rooms_per_booking must be >= 0, got %d", s.MaxRoomsPerBooking)
	}
	for i, step := range s.Steps {
		if !ValidOps[step.Op] {
			return fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
	}
	return nil
}

// NewSession builds the scenario's building and a session seeded from the scenario
func (s *Scenario) NewSession() (*allocation.Session, error) {
	b := building.Standard()
	if len(s.Floors) > 0 {
		var err error
		if b, err = building.New(s.Floors...); err != nil {
			return nil, fmt.Errorf("building scenario layout: %w", err)
		}
	}

	opts := allocation.Options{MaxRoomsPerBooking: s.MaxRoomsPerBooking}
	if s.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(s.Seed))
	}
	return allocation.NewSession(b, opts), nil
}

// Run executes every step in order. A failing step is recorded and the run continues.
func (s *Scenario) Run(session *allocation.Session) []Result {
	results := make([]Result, 0, len(s.Steps))
	for i, step := range s.Steps {
		res := Result{Index: i + 1, Step: step}
		switch step.Op {
		case OpBook:
			res.Booking, res.Err = session.Book(step.Count)
		case OpRandomize:
			res.Booking, res.Err = session.Randomize(step.Count)
		case OpReset:
			session.Reset()
		}
		results = append(results, res)
	}
	return results
}

// String renders the result as a single line
func (r Result) String() string {
	prefix := fmt.Sprintf("%3d. %-9s", r.Index, r.Step.Op)
	if r.Step.Op != OpReset {
		prefix += fmt.Sprintf(" %2d", r.Step.Count)
	}

	switch {
	case r.Err != nil:
		return fmt.Sprintf("%s  error: %v", prefix, r.Err)
	case r.Booking == nil:
		return prefix + "  ok"
	}

	line := fmt.Sprintf("%s  %-11s rooms=%v travel=%d", prefix, r.Booking.Policy, r.Booking.Rooms, r.Booking.TravelTime)
	if r.Booking.Partial() {
		line += fmt.Sprintf(" (short by %d)", r.Booking.Shortfall())
	}
	return line
}
