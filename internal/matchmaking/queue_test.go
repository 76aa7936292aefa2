package matchmaking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueAddReplaces(t *testing.T) {
	q := newQueue()

	q.add(&entry{steamID: 1, mmr: 1000, enqueuedAt: time.Now()})
	q.add(&entry{steamID: 1, mmr: 1250, enqueuedAt: time.Now()})

	assert.Equal(t, 1, q.size())
	assert.True(t, q.contains(1))

	// The stale bucket slot must be gone; only the 1250 bracket holds the entry.
	assert.Empty(t, q.buckets[10])
	assert.Len(t, q.buckets[12], 1)
}

func TestQueueRemove(t *testing.T) {
	q := newQueue()

	q.add(&entry{steamID: 1, mmr: 1000})
	q.add(&entry{steamID: 2, mmr: 1020})

	assert.True(t, q.remove(1))
	assert.False(t, q.remove(1), "second remove is a no-op")
	assert.Equal(t, 1, q.size())
	assert.False(t, q.contains(1))
	assert.True(t, q.contains(2))
}

func TestQueueEmptyBucketsCleaned(t *testing.T) {
	q := newQueue()

	q.add(&entry{steamID: 1, mmr: 1000})
	q.remove(1)

	assert.Empty(t, q.buckets)
	assert.Zero(t, q.size())
}

func TestQueueAll(t *testing.T) {
	q := newQueue()

	q.add(&entry{steamID: 1, mmr: 900})
	q.add(&entry{steamID: 2, mmr: 1800})
	q.add(&entry{steamID: 3, mmr: 1810})

	all := q.all()
	assert.Len(t, all, 3)

	ids := make(map[uint64]bool)
	for _, e := range all {
		ids[e.steamID] = true
	}
	assert.Equal(t, map[uint64]bool{1: true, 2: true, 3: true}, ids)
}
