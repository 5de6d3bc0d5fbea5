package utils

import (
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

type HTTPClientConfig struct {
	Timeout        time.Duration // per-request; 0 leaves long media bodies unbounded
	KATimeout      time.Duration
	ProxyURL       string
	ProxyUsername  string
	ProxyPassword  string
	HighThreadMode bool // advanced socket options for high concurrency
}

// HTTPDoer is the transport capability shared by the API client and the chunk fetcher.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type BiliHTTPClient struct {
	client *http.Client
	config HTTPClientConfig
}

func NewBiliHTTPClient(cfg HTTPClientConfig) *BiliHTTPClient {
	if cfg.KATimeout == 0 {
		cfg.KATimeout = 90 * time.Second
	}
	transport := &http.Transport{
		IdleConnTimeout:     cfg.KATimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		DisableCompression:  true,
		MaxConnsPerHost:     0,
	}
	if cfg.HighThreadMode {
		transport.DialContext = (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
			Control: func(network, address string, c syscall.RawConn) error {
				return c.Control(func(fd uintptr) {
					tuneSocket(fd)
				})
			},
		}).DialContext
	}
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err == nil {
			if cfg.ProxyUsername != "" {
				if cfg.ProxyPassword != "" {
					proxyURL.User = url.UserPassword(cfg.ProxyUsername, cfg.ProxyPassword)
				} else {
					proxyURL.User = url.User(cfg.ProxyUsername)
				}
			}
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &BiliHTTPClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

// Do stamps the platform headers the origin checks for and sends req.
func (c *BiliHTTPClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", PlatformUserAgent)
	req.Header.Set("Referer", PlatformReferer)
	return c.client.Do(req)
}
