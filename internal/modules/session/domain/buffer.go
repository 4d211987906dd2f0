package domain

import (
	"fmt"
	"sync"
)

// Buffer is a fixed-capacity FIFO of records. Appending to a full buffer
// evicts the oldest record. Snapshots are copies in insertion order.
type Buffer struct {
	mu    sync.RWMutex
	items []Record
	head  int
	size  int
}

func NewBuffer(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("buffer capacity must be positive, got %d", capacity)
	}
	return &Buffer{items: make([]Record, capacity)}, nil
}

func (b *Buffer) Append(rec Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := (b.head + b.size) % len(b.items)
	b.items[idx] = rec
	if b.size < len(b.items) {
		b.size++
		return
	}
	b.head = (b.head + 1) % len(b.items)
}

func (b *Buffer) Snapshot() []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Record, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.head+i)%len(b.items)]
	}
	return out
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

func (b *Buffer) Cap() int {
	return len(b.items)
}
