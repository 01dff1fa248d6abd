package fsio

import (
	"context"
	"io/fs"
	"sync/atomic"
)

// Counting decorates an Adapter and tallies the calls passing through it.
type Counting struct {
	Adapter
	listings atomic.Int64
	reads    atomic.Int64
	decodes  atomic.Int64
	writes   atomic.Int64
}

func NewCounting(inner Adapter) *Counting {
	return &Counting{Adapter: inner}
}

func (c *Counting) ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error) {
	c.listings.Add(1)
	return c.Adapter.ReadDir(ctx, path)
}

func (c *Counting) ReadText(ctx context.Context, path string) (string, error) {
	c.reads.Add(1)
	return c.Adapter.ReadText(ctx, path)
}

func (c *Counting) DecodeImage(ctx context.Context, path string) (*Picture, error) {
	c.decodes.Add(1)
	return c.Adapter.DecodeImage(ctx, path)
}

func (c *Counting) WriteText(ctx context.Context, path string, text string) error {
	c.writes.Add(1)
	return c.Adapter.WriteText(ctx, path, text)
}

// Stats is a snapshot of the call counters.
type Stats struct {
	Listings, Reads, Decodes, Writes int64
}

func (c *Counting) Stats() Stats {
	return Stats{
		Listings: c.listings.Load(),
		Reads:    c.reads.Load(),
		Decodes:  c.decodes.Load(),
		Writes:   c.writes.Load(),
	}
}
