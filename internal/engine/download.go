// Package engine downloads one media file as concurrent ranged GETs written into a seekable sink.
//
// Every range gets its own goroutine up front. A counting permit bounds how many requests are
// in flight, a bounded channel hands opened bodies to a single writer in completion order, and
// the writer seeks to each range's offset before copying. Download returns only after the
// writer has stopped and every fetch goroutine has been joined. Chunks are not retried, and a
// failed download may leave partial bytes in the sink.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// MediaDescriptor is a resolved, directly downloadable media body.
type MediaDescriptor struct {
	Size int64
	URL  string
}

// Task is the per-download configuration. ChunkSize <= 0 downloads the whole body as one
// range; Connections <= 0 is treated as 1.
type Task struct {
	ID          string
	Media       MediaDescriptor
	ChunkSize   int64
	Connections int
}

// Observer receives fire-and-forget progress notifications. Implementations must not block.
type Observer interface {
	OnStart(id string, total int64)
	OnProgress(id string, bytesSoFar int64)
	OnDone(id string)
}

type nopObserver struct{}

func (nopObserver) OnStart(string, int64)    {}
func (nopObserver) OnProgress(string, int64) {}
func (nopObserver) OnDone(string)            {}

type Engine struct {
	fetcher  Fetcher
	observer Observer
}

type Option func(*Engine)

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

func New(fetcher Fetcher, opts ...Option) *Engine {
	e := &Engine{fetcher: fetcher, observer: nopObserver{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Download fetches task.Media into sink and returns the first error raised by any fetch or by
// the writer. ctx is applied to permit waits and requests; it never abandons a goroutine.
func (e *Engine) Download(ctx context.Context, task Task, sink Sink) error {
	if task.Media.Size <= 0 {
		return fmt.Errorf("%w: media size %d", ErrInvalidTask, task.Media.Size)
	}
	if task.Media.URL == "" {
		return fmt.Errorf("%w: empty media url", ErrInvalidTask)
	}
	if sink == nil {
		return fmt.Errorf("%w: nil sink", ErrInvalidTask)
	}
	connections := max(task.Connections, 1)
	ranges := Partition(task.Media.Size, task.ChunkSize)
	log.Debug().Str("op", "engine/download").Str("id", task.ID).Int64("size", task.Media.Size).Int("chunks", len(ranges)).Int("connections", connections).Msg("Starting download")
	startTime := time.Now()

	var failures firstError
	d := newDispatcher(e.fetcher, task.Media.URL, connections, &failures)
	e.observer.OnStart(task.ID, task.Media.Size)
	d.start(ctx, ranges)

	var written atomic.Int64
	writeErr := writeChunks(sink, d.results, func(n int64) {
		e.observer.OnProgress(task.ID, written.Add(n))
	})
	if writeErr != nil {
		failures.record(writeErr)
		d.stop()
	}
	d.wait()

	if err := failures.get(); err != nil {
		log.Error().Str("op", "engine/download").Str("id", task.ID).Err(err).Msg("Download failed")
		return err
	}
	e.observer.OnDone(task.ID)
	log.Info().Str("op", "engine/download").Str("id", task.ID).Msgf("Downloaded %d bytes in %s", written.Load(), time.Since(startTime).Round(time.Millisecond))
	return nil
}
