package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oakpointclinic/booking-ai/internal/availability"
	"github.com/oakpointclinic/booking-ai/internal/doctors"
)

const snapshotKey = "assistant:snapshot"

// Snapshot is the clinic state the assistant reasons over: active doctors and
// their open slots for the rolling booking window.
type Snapshot struct {
	Doctors []doctors.Doctor              `json:"doctors"`
	Slots   map[int64][]availability.Slot `json:"slots"`
}

// DoctorByID returns the snapshot doctor with the given id, if present.
func (s *Snapshot) DoctorByID(id int64) (doctors.Doctor, bool) {
	for _, d := range s.Doctors {
		if d.ID == id {
			return d, true
		}
	}
	return doctors.Doctor{}, false
}

type doctorLister interface {
	ListActive(ctx context.Context) ([]doctors.Doctor, error)
}

type slotSource interface {
	OpenSlots(ctx context.Context, doctorID int64, from time.Time, days, limit int) ([]availability.Slot, error)
}

// SnapshotSource assembles snapshots from the database and keeps a short-lived
// JSON copy in Redis so a burst of chat turns does not hammer the scheduler.
type SnapshotSource struct {
	doctors doctorLister
	slots   slotSource
	redis   *redis.Client
	ttl     time.Duration
	now     func() time.Time
}

// NewSnapshotSource creates a snapshot source. redisClient may be nil, in
// which case every call reads straight from the database.
func NewSnapshotSource(doctorRepo doctorLister, slotRepo slotSource, redisClient *redis.Client, ttl time.Duration) *SnapshotSource {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SnapshotSource{
		doctors: doctorRepo,
		slots:   slotRepo,
		redis:   redisClient,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the current snapshot, serving from cache when fresh.
func (s *SnapshotSource) Get(ctx context.Context) (*Snapshot, error) {
	// Any cache trouble is treated as a miss, not a failure.
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, snapshotKey).Bytes(); err == nil {
			var snap Snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				return &snap, nil
			}
		}
	}

	snap, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(snap); err == nil {
			_ = s.redis.Set(ctx, snapshotKey, data, s.ttl).Err()
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot, e.g. after a booking lands.
func (s *SnapshotSource) Invalidate(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, snapshotKey).Err()
	}
}

func (s *SnapshotSource) build(ctx context.Context) (*Snapshot, error) {
	active, err := s.doctors.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("assistant: list doctors: %w", err)
	}

	snap := &Snapshot{
		Doctors: active,
		Slots:   make(map[int64][]availability.Slot, len(active)),
	}
	from := s.now()
	for _, d := range active {
		slots, err := s.slots.OpenSlots(ctx, d.ID, from, 7, 100)
		if err != nil {
			return nil, fmt.Errorf("assistant: open slots for doctor %d: %w", d.ID, err)
		}
		snap.Slots[d.ID] = slots
	}
	return snap, nil
}
