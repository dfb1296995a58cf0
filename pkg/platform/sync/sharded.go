package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// ShardedMutex spreads per-key locks over a fixed set of mutexes: writers
// for the same key always serialize, writers for different keys rarely
// contend. Cheaper than a mutex per key when the key space is unbounded.
type ShardedMutex struct {
	shards [shardCount]sync.Mutex
}

func NewShardedMutex() *ShardedMutex {
	return &ShardedMutex{}
}

// Lock acquires the shard that owns key.
func (m *ShardedMutex) Lock(key string) {
	m.shards[shardFor(key)].Lock()
}

// Unlock releases the shard that owns key.
func (m *ShardedMutex) Unlock(key string) {
	m.shards[shardFor(key)].Unlock()
}

func shardFor(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key)) //nolint:errcheck // fnv writes cannot fail
	return h.Sum32() % shardCount
}
