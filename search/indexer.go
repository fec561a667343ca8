package search

import (
	"context"
	"sync"
)

// Indexer writes projections to the search index. Callers treat every error
// as best effort: log it, never fail the relational write because of it.
type Indexer interface {
	Index(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, trackdbID uint) error
	Ping(ctx context.Context) error
}

// FakeIndexer keeps documents in memory.
type FakeIndexer struct {
	mu      sync.Mutex
	Docs    map[uint]*Document
	Deleted []uint
	Err     error
}

func NewFakeIndexer() *FakeIndexer {
	return &FakeIndexer{Docs: map[uint]*Document{}}
}

func (f *FakeIndexer) Index(_ context.Context, doc *Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Docs[doc.TrackdbID] = doc
	return nil
}

func (f *FakeIndexer) Delete(_ context.Context, trackdbID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	delete(f.Docs, trackdbID)
	f.Deleted = append(f.Deleted, trackdbID)
	return nil
}

func (f *FakeIndexer) Ping(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Err
}

func (f *FakeIndexer) Get(trackdbID uint) (*Document, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.Docs[trackdbID]
	return doc, ok
}
