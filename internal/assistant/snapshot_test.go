package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/oakpointclinic/booking-ai/internal/availability"
	"github.com/oakpointclinic/booking-ai/internal/doctors"
)

type countingDoctors struct {
	calls int
	list  []doctors.Doctor
}

func (c *countingDoctors) ListActive(ctx context.Context) ([]doctors.Doctor, error) {
	c.calls++
	return c.list, nil
}

type countingSlots struct {
	calls int
	slots []availability.Slot
}

func (c *countingSlots) OpenSlots(ctx context.Context, doctorID int64, from time.Time, days, limit int) ([]availability.Slot, error) {
	c.calls++
	return c.slots, nil
}

func newCacheTestSource(t *testing.T) (*SnapshotSource, *countingDoctors, *countingSlots) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	dl := &countingDoctors{list: []doctors.Doctor{{ID: 1, Name: "Dr. Chen", Specialty: "Cardiology"}}}
	sl := &countingSlots{slots: []availability.Slot{{DoctorID: 1, Date: "2025-09-16", Time: "09:00:00"}}}
	return NewSnapshotSource(dl, sl, client, time.Minute), dl, sl
}

func TestSnapshotSourceCachesBuilds(t *testing.T) {
	src, dl, sl := newCacheTestSource(t)
	ctx := context.Background()

	first, err := src.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(first.Doctors) != 1 || len(first.Slots[1]) != 1 {
		t.Fatalf("unexpected snapshot %+v", first)
	}

	second, err := src.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dl.calls != 1 || sl.calls != 1 {
		t.Errorf("second read must come from cache, db calls: doctors=%d slots=%d", dl.calls, sl.calls)
	}
	if len(second.Doctors) != 1 || second.Doctors[0].Name != "Dr. Chen" {
		t.Errorf("cached snapshot corrupted: %+v", second)
	}
}

func TestSnapshotSourceInvalidateForcesRebuild(t *testing.T) {
	src, dl, _ := newCacheTestSource(t)
	ctx := context.Background()

	if _, err := src.Get(ctx); err != nil {
		t.Fatalf("Get: %v", err)
	}
	src.Invalidate(ctx)
	if _, err := src.Get(ctx); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dl.calls != 2 {
		t.Errorf("invalidate must force a rebuild, got %d db reads", dl.calls)
	}
}

func TestSnapshotSourceWorksWithoutRedis(t *testing.T) {
	dl := &countingDoctors{list: []doctors.Doctor{{ID: 1, Name: "Dr. Chen"}}}
	sl := &countingSlots{}
	src := NewSnapshotSource(dl, sl, nil, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := src.Get(context.Background()); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if dl.calls != 2 {
		t.Errorf("without redis every read hits the db, got %d", dl.calls)
	}
}
