package processor

import (
	"context"
	"log"
)

// DefaultMaxRecords caps how many settlement batches a single accumulation
// may pull from the feed before soft-stopping.
const DefaultMaxRecords = 10000

// PageIterator walks the settlement feed one page at a time, bounded by a
// configurable record cap. Hitting the cap is a soft-stop, not an error: the
// iterator simply reports exhaustion. A fresh iterator restarts the walk.
type PageIterator struct {
	feed       Feed
	filters    Filters
	limit      int
	maxRecords int
	cursor     string
	fetched    int
	done       bool
}

// NewPageIterator creates an iterator over the feed. limit is the page size;
// maxRecords <= 0 falls back to DefaultMaxRecords.
func NewPageIterator(feed Feed, filters Filters, limit, maxRecords int) *PageIterator {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &PageIterator{
		feed:       feed,
		filters:    filters,
		limit:      limit,
		maxRecords: maxRecords,
	}
}

// HasNext reports whether another page may be available.
func (it *PageIterator) HasNext() bool {
	return !it.done
}

// Next fetches the next page. After the final page (no further cursor, or the
// record cap reached) HasNext returns false.
func (it *PageIterator) Next(ctx context.Context) ([]SettlementBatch, error) {
	if it.done {
		return nil, nil
	}

	page, err := it.feed.FetchPage(ctx, it.filters, PageRequest{Limit: it.limit, Cursor: it.cursor})
	if err != nil {
		it.done = true
		return nil, err
	}

	it.fetched += len(page.Data)
	it.cursor = page.Cursor
	if it.cursor == "" || it.fetched >= it.maxRecords {
		it.done = true
	}
	return page.Data, nil
}

// FetchAll accumulates every page the iterator yields. A page fetch failure
// truncates the accumulation and is logged; the partial result is returned
// rather than an error.
func FetchAll(ctx context.Context, feed Feed, filters Filters, limit, maxRecords int) []SettlementBatch {
	it := NewPageIterator(feed, filters, limit, maxRecords)

	var all []SettlementBatch
	for it.HasNext() {
		batches, err := it.Next(ctx)
		if err != nil {
			log.Printf("[processor] WARNING: settlement page fetch failed, returning %d accumulated batches: %v", len(all), err)
			break
		}
		all = append(all, batches...)
	}
	if it.fetched >= it.maxRecords {
		log.Printf("[processor] settlement accumulation stopped at record cap (%d)", it.maxRecords)
	}
	return all
}
