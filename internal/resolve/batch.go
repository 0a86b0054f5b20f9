package resolve

import "sync"

// Batch tracks the descriptions already processed
// in one batch. It is safe for concurrent use.
type Batch struct {
	mu        sync.Mutex
	processed map[string]struct{}
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{processed: map[string]struct{}{}}
}

// MarkProcessed records the description as processed.
func (b *Batch) MarkProcessed(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.processed[id] = struct{}{}
}

// IsProcessed reports whether the description was processed.
func (b *Batch) IsProcessed(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.processed[id]
	return ok
}

// TryMark marks the description as processed and reports
// whether it wasn't already.
func (b *Batch) TryMark(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.processed[id]; ok {
		return false
	}

	b.processed[id] = struct{}{}
	return true
}

// Len returns the number of processed descriptions.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.processed)
}
