package engine

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// FetchResult carries an opened chunk body from a fetch goroutine to the writer. Whoever
// receives it last owns Body and must close it.
type FetchResult struct {
	Range ByteRange
	Body  io.ReadCloser
}

// firstError keeps the earliest failure reported by any stage.
type firstError struct {
	mu  sync.Mutex
	err error
}

func (f *firstError) record(err error) {
	if err == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = err
	}
}

func (f *firstError) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// dispatcher runs one goroutine per range. A goroutine needs a permit only for the
// request/response-header phase; delivering the body goes through results, whose capacity
// equals the permit count, so producers can't run ahead of the writer by more than that.
type dispatcher struct {
	fetcher  Fetcher
	url      string
	permits  *semaphore.Weighted
	results  chan FetchResult
	abandon  chan struct{}
	abandonO sync.Once
	group    errgroup.Group
	joined   chan struct{}
	failures *firstError
}

func newDispatcher(fetcher Fetcher, url string, connections int, failures *firstError) *dispatcher {
	if connections < 1 {
		connections = 1
	}
	return &dispatcher{
		fetcher:  fetcher,
		url:      url,
		permits:  semaphore.NewWeighted(int64(connections)),
		results:  make(chan FetchResult, connections),
		abandon:  make(chan struct{}),
		joined:   make(chan struct{}),
		failures: failures,
	}
}

// start launches every fetch up front and closes results once all of them have returned.
func (d *dispatcher) start(ctx context.Context, ranges []ByteRange) {
	for _, r := range ranges {
		d.group.Go(func() error {
			return d.fetch(ctx, r)
		})
	}
	go func() {
		if err := d.group.Wait(); err != nil {
			d.failures.record(err)
		}
		close(d.results)
		close(d.joined)
	}()
}

func (d *dispatcher) fetch(ctx context.Context, r ByteRange) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &TaskJoinError{Range: r, Value: v}
		}
		if err != nil {
			log.Error().Str("op", "engine/dispatch").Err(err).Msgf("Chunk %s failed", r)
			d.failures.record(err)
		}
	}()
	if err := d.permits.Acquire(ctx, 1); err != nil {
		return &NetworkError{Range: r, Err: err}
	}
	body, err := func() (io.ReadCloser, error) {
		defer d.permits.Release(1)
		return d.fetcher.Fetch(ctx, d.url, r)
	}()
	if err != nil {
		return err
	}
	select {
	case d.results <- FetchResult{Range: r, Body: body}:
	case <-d.abandon:
		body.Close()
	}
	return nil
}

// stop tells producers the writer is gone, then closes every queued body until all fetch
// goroutines have been joined.
func (d *dispatcher) stop() {
	d.abandonO.Do(func() { close(d.abandon) })
	for res := range d.results {
		res.Body.Close()
	}
}

func (d *dispatcher) wait() {
	<-d.joined
}
