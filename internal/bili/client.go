// Package bili resolves video identifiers against the bilibili web API.
package bili

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/bilidl/internal/utils"
)

const DefaultAPIHost = "api.bilibili.com"

// Client issues single-shot JSON calls. It shares its transport with the media fetcher.
type Client struct {
	doer    utils.HTTPDoer
	baseURL string
}

// NewClient targets host over https unless host already carries a scheme.
func NewClient(doer utils.HTTPDoer, host string) *Client {
	if host == "" {
		host = DefaultAPIHost
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return &Client{doer: doer, baseURL: strings.TrimSuffix(host, "/")}
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

func (e *envelope[T]) result() (*T, error) {
	if e.Code != 0 {
		return nil, &APIError{Code: e.Code, Message: e.Message}
	}
	if e.Data == nil {
		return nil, fmt.Errorf("%w: missing data", ErrUnexpectedResponse)
	}
	return e.Data, nil
}

func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	log.Debug().Str("op", "bili/client").Msgf("GET %s", endpoint)
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error requesting %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api request %s failed with status code %d", path, resp.StatusCode)
	}
	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("error parsing response from %s: %w", path, err)
	}
	return env.result()
}
