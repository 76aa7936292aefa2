package matchmaking

import (
	"time"

	"github.com/friesse/fragNet/internal/model"
)

// entry is one queued player.
type entry struct {
	steamID       uint64
	mmr           uint32
	preferredMaps []string
	enqueuedAt    time.Time
	priority      bool
}

// queue holds queued players in skill buckets keyed by mmr/100.
type queue struct {
	buckets map[uint32][]*entry
	byID    map[uint64]*entry
}

func newQueue() *queue {
	return &queue{
		buckets: make(map[uint32][]*entry),
		byID:    make(map[uint64]*entry),
	}
}

// add inserts a player; re-adding replaces the old entry.
func (q *queue) add(e *entry) {
	if old, ok := q.byID[e.steamID]; ok {
		q.removeFromBucket(old)
	}
	bracket := model.SkillBracket(e.mmr)
	q.buckets[bracket] = append(q.buckets[bracket], e)
	q.byID[e.steamID] = e
}

// remove drops a player, reporting whether they were queued.
func (q *queue) remove(steamID uint64) bool {
	e, ok := q.byID[steamID]
	if !ok {
		return false
	}
	q.removeFromBucket(e)
	delete(q.byID, steamID)
	return true
}

func (q *queue) removeFromBucket(e *entry) {
	bracket := model.SkillBracket(e.mmr)
	bucket := q.buckets[bracket]
	for i, candidate := range bucket {
		if candidate.steamID == e.steamID {
			q.buckets[bracket] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(q.buckets[bracket]) == 0 {
		delete(q.buckets, bracket)
	}
}

// contains reports whether a player is queued.
func (q *queue) contains(steamID uint64) bool {
	_, ok := q.byID[steamID]
	return ok
}

// size returns the total queued player count across buckets.
func (q *queue) size() int {
	return len(q.byID)
}

// all returns every queued entry across all buckets.
func (q *queue) all() []*entry {
	entries := make([]*entry, 0, len(q.byID))
	for _, e := range q.byID {
		entries = append(entries, e)
	}
	return entries
}
