package store

import (
	"testing"
	"time"

	"github.com/brainstorm-app/brainstorm-golang/internal/models"
)

func mkIdea(id int64, status string, submitted time.Time) models.Idea {
	return models.Idea{ID: id, Title: "idea", Status: status, SubmittedDate: submitted}
}

func TestUpsertAndGet(t *testing.T) {
	s := NewIdeaStore()
	now := time.Now()

	s.Upsert(mkIdea(1, "UnderReview", now))
	got, ok := s.Get(1)
	if !ok || got.Status != "UnderReview" {
		t.Fatalf("Get(1) = (%+v, %v)", got, ok)
	}

	// Upsert replaces in place.
	s.Upsert(mkIdea(1, "Approved", now))
	got, _ = s.Get(1)
	if got.Status != "Approved" {
		t.Fatalf("after upsert, status = %q, want Approved", got.Status)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestSnapshotOrder(t *testing.T) {
	s := NewIdeaStore()
	base := time.Now()
	s.SetAll([]models.Idea{
		mkIdea(1, "UnderReview", base.Add(-2*time.Hour)),
		mkIdea(2, "UnderReview", base),
		mkIdea(3, "UnderReview", base.Add(-time.Hour)),
	})

	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot len = %d, want 3", len(snap))
	}
	// Newest submission first.
	if snap[0].ID != 2 || snap[1].ID != 3 || snap[2].ID != 1 {
		t.Fatalf("snapshot order = %d,%d,%d, want 2,3,1", snap[0].ID, snap[1].ID, snap[2].ID)
	}
}

func TestSubscribeReceivesPublishes(t *testing.T) {
	s := NewIdeaStore()
	ch := s.Subscribe()

	s.Upsert(mkIdea(1, "UnderReview", time.Now()))

	select {
	case snap := <-ch:
		if len(snap) != 1 || snap[0].ID != 1 {
			t.Fatalf("received snapshot %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered to subscriber")
	}
}

func TestSlowSubscriberGetsLatest(t *testing.T) {
	s := NewIdeaStore()
	ch := s.Subscribe()

	// Two publishes without the subscriber reading: the stale snapshot is
	// dropped and the latest one is waiting.
	s.Upsert(mkIdea(1, "UnderReview", time.Now()))
	s.Upsert(mkIdea(2, "UnderReview", time.Now()))

	snap := <-ch
	if len(snap) != 2 {
		t.Fatalf("slow subscriber saw %d ideas, want latest snapshot of 2", len(snap))
	}
}

func TestRemove(t *testing.T) {
	s := NewIdeaStore()
	s.Upsert(mkIdea(1, "UnderReview", time.Now()))
	s.Remove(1)
	if _, ok := s.Get(1); ok {
		t.Fatal("idea still present after Remove")
	}
}

func TestResetClosesSubscribers(t *testing.T) {
	s := NewIdeaStore()
	ch := s.Subscribe()
	s.Reset()

	if _, open := <-ch; open {
		t.Fatal("subscriber channel still open after Reset")
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d after Reset, want 0", s.Len())
	}
}
