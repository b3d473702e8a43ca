// Package redis provides a Redis/Valkey implementation of the repository interface
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/navikt/roomalloc/internal/config"
	"github.com/navikt/roomalloc/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when a requested entity is not found
var ErrNotFound = models.ErrNotFound

// bookingRecord is the internal model for storing a booking in Redis
type bookingRecord struct {
	ID         string    `json:"id"`
	Rooms      []int     `json:"rooms"`
	Requested  int       `json:"requested"`
	Policy     string    `json:"policy"`
	TravelTime int       `json:"travel_time"`
	CreatedAt  time.Time `json:"created_at"`
}

func newRecord(b *models.Booking) bookingRecord {
	rooms := make([]int, len(b.Rooms))
	for i, r := range b.Rooms {
		rooms[i] = int(r)
	}
	return bookingRecord{
		ID:         b.ID,
		Rooms:      rooms,
		Requested:  b.Requested,
		Policy:     string(b.Policy),
		TravelTime: b.TravelTime,
		CreatedAt:  b.CreatedAt,
	}
}

func (rec bookingRecord) toBooking() *models.Booking {
	rooms := make([]models.RoomID, len(rec.Rooms))
	for i, r := range rec.Rooms {
		rooms[i] = models.RoomID(r)
	}
	return &models.Booking{
		ID:         rec.ID,
		Rooms:      rooms,
		Requested:  rec.Requested,
		Policy:     models.AllocationPolicy(rec.Policy),
		TravelTime: rec.TravelTime,
		CreatedAt:  rec.CreatedAt,
	}
}

// Repository implements the repository interface with Redis storage
type Repository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	limit     int
}

// NewRepository creates a new Redis repository keeping at most limit bookings
func NewRepository(cfg config.RedisConfig, limit int) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		// Use DB from config if not specified in the URI
		if opt.DB == 0 {
			opt.DB = cfg.DB
		}

		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.HistoryTTL,
		limit:     limit,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// historyKey returns the Redis key of the booking list
func (r *Repository) historyKey() string {
	return r.keyPrefix + "bookings"
}

// AppendBooking pushes a booking onto the head of the history list
func (r *Repository) AppendBooking(ctx context.Context, booking *models.Booking) error {
	data, err := json.Marshal(newRecord(booking))
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	key := r.historyKey()
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	if r.limit > 0 {
		pipe.LTrim(ctx, key, 0, int64(r.limit-1))
	}
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}

	return nil
}

// ListBookings returns the retained bookings, newest first
func (r *Repository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	values, err := r.client.LRange(ctx, r.historyKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*models.Booking, 0, len(values))
	for _, v := range values {
		var rec bookingRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			logrus.WithError(err).WithField("key", r.historyKey()).Warn("Skipping undecodable booking history entry")
			continue
		}
		bookings = append(bookings, rec.toBooking())
	}

	return bookings, nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	bookings, err := r.ListBookings(ctx)
	if err != nil {
		return nil, err
	}

	for _, b := range bookings {
		if b.ID == id {
			return b, nil
		}
	}

	return nil, ErrNotFound
}

// ClearBookings deletes the history list
func (r *Repository) ClearBookings(ctx context.Context) error {
	if err := r.client.Del(ctx, r.historyKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear bookings: %w", err)
	}
	return nil
}

// Ping checks the connection to Redis
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
