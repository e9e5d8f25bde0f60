// Package store keeps the latest known idea list in memory and republishes
// it to subscribers whenever it changes. It plays the role the client-side
// idea cache played before: one injectable container, constructed once in
// main and passed by reference, never a package-level singleton.
//
// Handlers publish into the store only after the backing database write has
// committed, so subscribers never observe an idea state that did not
// persist.
package store

import (
	"sort"
	"sync"

	"github.com/brainstorm-app/brainstorm-golang/internal/models"
)

// IdeaStore is a mutex-guarded snapshot of ideas plus an observer list.
type IdeaStore struct {
	mu          sync.RWMutex
	ideas       map[int64]models.Idea
	subscribers []chan []models.Idea
}

// NewIdeaStore returns an empty store.
func NewIdeaStore() *IdeaStore {
	return &IdeaStore{
		ideas: map[int64]models.Idea{},
	}
}

// Subscribe registers an observer. Each published snapshot is delivered on
// the returned channel; if the observer is slow the oldest pending snapshot
// is dropped, so a reader always wakes up to the most recent state.
func (s *IdeaStore) Subscribe() <-chan []models.Idea {
	ch := make(chan []models.Idea, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

// SetAll replaces the snapshot wholesale (used after a full re-fetch).
func (s *IdeaStore) SetAll(ideas []models.Idea) {
	s.mu.Lock()
	s.ideas = make(map[int64]models.Idea, len(ideas))
	for _, i := range ideas {
		s.ideas[i.ID] = i
	}
	s.publishLocked()
	s.mu.Unlock()
}

// Upsert inserts or replaces a single idea and republishes.
func (s *IdeaStore) Upsert(idea models.Idea) {
	s.mu.Lock()
	s.ideas[idea.ID] = idea
	s.publishLocked()
	s.mu.Unlock()
}

// Remove drops an idea (after a confirmed delete) and republishes.
func (s *IdeaStore) Remove(ideaID int64) {
	s.mu.Lock()
	delete(s.ideas, ideaID)
	s.publishLocked()
	s.mu.Unlock()
}

// Get returns the cached copy of one idea, if present.
func (s *IdeaStore) Get(ideaID int64) (models.Idea, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idea, ok := s.ideas[ideaID]
	return idea, ok
}

// Snapshot returns the current idea list, newest submission first.
func (s *IdeaStore) Snapshot() []models.Idea {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len reports how many ideas the store currently holds.
func (s *IdeaStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ideas)
}

// Reset clears the snapshot and detaches all subscribers. Tests use this
// to give each case a fresh store lifetime.
func (s *IdeaStore) Reset() {
	s.mu.Lock()
	s.ideas = map[int64]models.Idea{}
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	s.mu.Unlock()
}

// publishLocked pushes the current snapshot to every subscriber.
// Caller must hold s.mu.
func (s *IdeaStore) publishLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale pending snapshot and replace it.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// snapshotLocked builds a sorted copy. Caller must hold s.mu.
func (s *IdeaStore) snapshotLocked() []models.Idea {
	out := make([]models.Idea, 0, len(s.ideas))
	for _, i := range s.ideas {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].SubmittedDate.Equal(out[b].SubmittedDate) {
			return out[a].ID > out[b].ID
		}
		return out[a].SubmittedDate.After(out[b].SubmittedDate)
	})
	return out
}
