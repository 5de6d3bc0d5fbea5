package engine

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// Sink is the caller-owned destination. The engine seeks and writes but never closes it.
// If it also has Flush() error or Sync() error, that is called once all chunks are written.
type Sink interface {
	io.Writer
	io.Seeker
}

type flusher interface {
	Flush() error
}

type syncer interface {
	Sync() error
}

// progressReader counts bytes as the writer pulls them and remembers read-side failures so
// they can be told apart from sink write failures.
type progressReader struct {
	r       io.Reader
	readErr error
	onRead  func(n int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.onRead != nil {
		p.onRead(int64(n))
	}
	if err != nil && err != io.EOF {
		p.readErr = err
	}
	return n, err
}

// writeChunks is the only goroutine touching the sink. Arrival order is arbitrary, so every
// chunk seeks to its own start first.
func writeChunks(sink Sink, results <-chan FetchResult, onRead func(n int64)) error {
	for res := range results {
		if err := writeChunk(sink, res, onRead); err != nil {
			return err
		}
	}
	return flushSink(sink)
}

func writeChunk(sink Sink, res FetchResult, onRead func(n int64)) error {
	defer res.Body.Close()
	if _, err := sink.Seek(res.Range.Start, io.SeekStart); err != nil {
		return &IOError{Op: "seek", Offset: res.Range.Start, Err: err}
	}
	reader := &progressReader{r: res.Body, onRead: onRead}
	n, err := io.Copy(sink, io.LimitReader(reader, res.Range.Len()))
	if err != nil {
		if reader.readErr != nil {
			return &NetworkError{Range: res.Range, Err: reader.readErr}
		}
		return &IOError{Op: "write", Offset: res.Range.Start + n, Err: err}
	}
	if n < res.Range.Len() {
		return &NetworkError{Range: res.Range, Err: fmt.Errorf("%w: got %d of %d bytes", io.ErrUnexpectedEOF, n, res.Range.Len())}
	}
	log.Debug().Str("op", "engine/writer").Msgf("Wrote chunk %s (%d bytes)", res.Range, n)
	return nil
}

func flushSink(sink Sink) error {
	var err error
	switch s := sink.(type) {
	case flusher:
		err = s.Flush()
	case syncer:
		err = s.Sync()
	}
	if err != nil {
		return &IOError{Op: "flush", Err: err}
	}
	return nil
}
