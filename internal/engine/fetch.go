package engine

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/bilidl/internal/utils"
)

// Fetcher opens the body of one byte range. The returned stream is handed to the writer
// unread; implementations must not buffer it.
type Fetcher interface {
	Fetch(ctx context.Context, url string, r ByteRange) (io.ReadCloser, error)
}

// HTTPFetcher issues a single ranged GET per call. The client supplies the fixed platform
// headers and is safe to share across downloads.
type HTTPFetcher struct {
	Client utils.HTTPDoer
}

func NewHTTPFetcher(client utils.HTTPDoer) *HTTPFetcher {
	return &HTTPFetcher{Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string, r ByteRange) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Range: r, Err: err}
	}
	req.Header.Set("Range", r.Header())
	req.Header.Set("Connection", "keep-alive")
	log.Debug().Str("op", "engine/fetch").Msgf("Sending range request %s", r.Header())
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &NetworkError{Range: r, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &NetworkError{Range: r, StatusCode: resp.StatusCode}
	}
	// a 200 means the Range header was ignored and the body starts at byte 0
	if resp.StatusCode == http.StatusOK && r.Start > 0 {
		log.Debug().Str("op", "engine/fetch").Msgf("Range %s ignored by server, skipping %d bytes", r, r.Start)
		if _, err := io.CopyN(io.Discard, resp.Body, r.Start); err != nil {
			resp.Body.Close()
			return nil, &NetworkError{Range: r, Err: err}
		}
	}
	return resp.Body, nil
}
