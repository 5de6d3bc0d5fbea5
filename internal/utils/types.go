package utils

import "time"

// BiliJob is one video download handed to the scheduler. CID and Title are optional; the
// scheduler resolves missing ones from the API. OutputPath wins over OutputDir when set.
type BiliJob struct {
	ID          string
	Video       string
	CID         uint64
	Title       string
	OutputDir   string
	OutputPath  string
	Quality     string
	Connections int
	ChunkSize   int64
	Timeout     time.Duration
}

type BatchEntry struct {
	ID        string `yaml:"id"`
	OutputDir string `yaml:"op,omitempty"`
}

type BatchFile struct {
	AV     []BatchEntry `yaml:"av"`
	BV     []BatchEntry `yaml:"bv"`
	Season []BatchEntry `yaml:"season"`
}
