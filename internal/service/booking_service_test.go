package service_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/navikt/roomalloc/internal/allocation"
	"github.com/navikt/roomalloc/internal/building"
	"github.com/navikt/roomalloc/internal/models"
	"github.com/navikt/roomalloc/internal/repository/memory"
	"github.com/navikt/roomalloc/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUpdateCallback is a mock for testing callbacks
type MockUpdateCallback struct {
	mock.Mock
}

func (m *MockUpdateCallback) OnUpdate(event models.UpdateEvent) {
	m.Called(event)
}

// MockRepository is a repository whose behaviour is scripted per test
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AppendBooking(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockRepository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockRepository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockRepository) ClearBookings(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newService(t *testing.T) (*service.BookingService, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository(0)
	session := allocation.NewSession(building.Standard(), allocation.Options{Rand: rand.New(rand.NewSource(1))})
	return service.NewBookingService(session, repo), repo
}

func TestBookingService_Book(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	booking, err := svc.Book(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []models.RoomID{101, 102, 103}, booking.Rooms)
	assert.NotEmpty(t, booking.ID)

	history, err := repo.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, booking.ID, history[0].ID)

	assert.Equal(t, booking, svc.Latest())
	assert.Equal(t, 94, svc.AvailableCount())
}

func TestBookingService_BookErrors(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, 6)
	assert.ErrorIs(t, err, allocation.ErrCapacityExceeded)

	_, err = svc.Book(ctx, 0)
	assert.ErrorIs(t, err, allocation.ErrInvalidCount)

	history, err := repo.ListBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, history, "Rejected bookings should not be recorded")
	assert.Nil(t, svc.Latest())
	assert.Equal(t, 5, svc.MaxRoomsPerBooking())
}

func TestBookingService_Randomize(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	booking, err := svc.Randomize(ctx, 200)
	require.NoError(t, err)
	assert.Len(t, booking.Rooms, 97)
	assert.True(t, booking.Partial())
	assert.Equal(t, 0, svc.AvailableCount())

	_, err = svc.Randomize(ctx, 1)
	assert.ErrorIs(t, err, allocation.ErrNoVacancy)
}

func TestBookingService_Reset(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, 2)
	require.NoError(t, err)
	_, err = svc.Randomize(ctx, 10)
	require.NoError(t, err)

	svc.Reset(ctx)

	assert.Nil(t, svc.Latest())
	assert.Equal(t, 97, svc.AvailableCount())
	history, err := repo.ListBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBookingService_RoomStatus(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, 1)
	require.NoError(t, err)

	status, err := svc.RoomStatus(101)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusBookedNow, status)

	status, err = svc.RoomStatus(102)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, status)

	_, err = svc.RoomStatus(1008)
	assert.ErrorIs(t, err, service.ErrUnknownRoom)
}

func TestBookingService_TravelTime(t *testing.T) {
	svc, _ := newService(t)

	cost, err := svc.TravelTime(105, 203)
	require.NoError(t, err)
	assert.Equal(t, 8, cost)

	_, err = svc.TravelTime(101, 111)
	assert.ErrorIs(t, err, service.ErrUnknownRoom)
}

func TestBookingService_GridAndHistory(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Book(ctx, 2)
	require.NoError(t, err)
	second, err := svc.Book(ctx, 1)
	require.NoError(t, err)

	grid := svc.Grid()
	require.Len(t, grid, 10)
	assert.Equal(t, models.RoomStatusBooked, grid[9].Rooms[0].Status)
	assert.Equal(t, models.RoomStatusBookedNow, grid[9].Rooms[2].Status)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)

	found, err := svc.GetBooking(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Rooms, found.Rooms)

	_, err = svc.GetBooking(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// TestBookingService_UpdateCallbacks tests the callback mechanism for state updates
func TestBookingService_UpdateCallbacks(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	mockCallback := new(MockUpdateCallback)
	svc.RegisterUpdateCallback(mockCallback.OnUpdate)

	mockCallback.On("OnUpdate", mock.MatchedBy(func(e models.UpdateEvent) bool {
		return e.Type == models.UpdateBooked && e.Booking != nil
	})).Return().Once()
	mockCallback.On("OnUpdate", mock.MatchedBy(func(e models.UpdateEvent) bool {
		return e.Type == models.UpdateRandomized && e.Booking != nil
	})).Return().Once()
	mockCallback.On("OnUpdate", mock.MatchedBy(func(e models.UpdateEvent) bool {
		return e.Type == models.UpdateReset && e.Booking == nil
	})).Return().Once()

	_, err := svc.Book(ctx, 2)
	require.NoError(t, err)
	_, err = svc.Randomize(ctx, 3)
	require.NoError(t, err)
	svc.Reset(ctx)

	// Rejected operations do not notify
	_, err = svc.Book(ctx, 9)
	require.Error(t, err)

	mockCallback.AssertExpectations(t)
	mockCallback.AssertNumberOfCalls(t, "OnUpdate", 3)
}

func TestBookingService_HistoryFailureDoesNotFailBooking(t *testing.T) {
	repo := new(MockRepository)
	repo.On("AppendBooking", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	repo.On("ClearBookings", mock.Anything).Return(errors.New("redis down"))
	repo.On("Ping", mock.Anything).Return(errors.New("redis down"))
	repo.On("ListBookings", mock.Anything).Return([]*models.Booking(nil), errors.New("redis down"))

	session := allocation.NewSession(building.Standard(), allocation.Options{})
	svc := service.NewBookingService(session, repo)
	ctx := context.Background()

	booking, err := svc.Book(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, booking.Rooms, 2)

	svc.Reset(ctx)
	assert.Equal(t, 97, svc.AvailableCount())

	assert.Error(t, svc.Ready(ctx))
	_, err = svc.History(ctx)
	assert.Error(t, err)

	repo.AssertExpectations(t)
}

// gateRepository blocks the first AppendBooking until release is closed
type gateRepository struct {
	*memory.Repository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gateRepository) AppendBooking(ctx context.Context, booking *models.Booking) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.Repository.AppendBooking(ctx, booking)
}

// eventLog records update events in the order they are emitted
type eventLog struct {
	mu     sync.Mutex
	events []models.UpdateEvent
}

func (l *eventLog) OnUpdate(event models.UpdateEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) Types() []models.UpdateType {
	l.mu.Lock()
	defer l.mu.Unlock()
	types := make([]models.UpdateType, len(l.events))
	for i, e := range l.events {
		types[i] = e.Type
	}
	return types
}

func TestBookingService_ResetWaitsForInFlightBooking(t *testing.T) {
	repo := &gateRepository{
		Repository: memory.NewRepository(0),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	session := allocation.NewSession(building.Standard(), allocation.Options{})
	svc := service.NewBookingService(session, repo)
	log := &eventLog{}
	svc.RegisterUpdateCallback(log.OnUpdate)
	ctx := context.Background()

	bookDone := make(chan error, 1)
	go func() {
		_, err := svc.Book(ctx, 3)
		bookDone <- err
	}()
	<-repo.entered

	resetDone := make(chan struct{})
	go func() {
		svc.Reset(ctx)
		close(resetDone)
	}()

	select {
	case <-resetDone:
		t.Fatal("Reset completed while a booking was still being recorded")
	case <-time.After(100 * time.Millisecond):
	}

	close(repo.release)
	require.NoError(t, <-bookDone)
	<-resetDone

	assert.Equal(t, []models.UpdateType{models.UpdateBooked, models.UpdateReset}, log.Types())
	assert.Nil(t, svc.Latest())
	assert.Equal(t, 97, svc.AvailableCount())

	history, err := svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history, "Reset must clear the booking recorded before it")
}

func TestBookingService_EventsUseSessionClock(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	session := allocation.NewSession(building.Standard(), allocation.Options{
		Now: func() time.Time { return at },
	})
	svc := service.NewBookingService(session, memory.NewRepository(0))
	log := &eventLog{}
	svc.RegisterUpdateCallback(log.OnUpdate)
	ctx := context.Background()

	booking, err := svc.Book(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Randomize(ctx, 2)
	require.NoError(t, err)
	svc.Reset(ctx)

	assert.Equal(t, at, booking.CreatedAt)

	log.mu.Lock()
	defer log.mu.Unlock()
	require.Len(t, log.events, 3)
	for _, e := range log.events {
		assert.Equal(t, at, e.At)
	}
}
