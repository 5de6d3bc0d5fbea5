package utils

const (
	TempDirName = ".bilidl-temp"
	LogFile     = ".bilidl.log"
	VideoExt    = ".mp4"
)

// Fixed request identity; the media CDN rejects ranged reads without a bilibili referer.
const (
	PlatformReferer   = "https://www.bilibili.com"
	PlatformUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36 Edg/122.0.0.0"
)

const (
	DefaultWorkers     = 3
	DefaultConnections = 8
	DefaultChunkSize   = 4 * 1024 * 1024
)

// Socket buffers for high-thread mode. Downloads are receive-heavy.
const (
	socketRecvBuffer = 4 * 1024 * 1024
	socketSendBuffer = 256 * 1024
)
