package scheduler

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/bilidl/internal/output"
	"github.com/tanq16/bilidl/internal/utils"
)

type fakeAPI struct {
	server    *httptest.Server
	media     []byte
	pageCalls atomic.Int32
	viewCalls atomic.Int32
}

// newFakeAPI serves the metadata endpoints and a range-capable media file from one host.
// Any video whose id contains "broken" gets an api error from the play url endpoint.
func newFakeAPI(t *testing.T, size int) *fakeAPI {
	t.Helper()
	api := &fakeAPI{media: make([]byte, size)}
	_, err := rand.Read(api.media)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/x/player/pagelist", func(w http.ResponseWriter, r *http.Request) {
		api.pageCalls.Add(1)
		fmt.Fprint(w, `{"code":0,"message":"0","data":[{"cid":279786,"page":1,"part":"p1"}]}`)
	})
	mux.HandleFunc("/x/web-interface/view", func(w http.ResponseWriter, r *http.Request) {
		api.viewCalls.Add(1)
		fmt.Fprint(w, `{"code":0,"message":"0","data":{"aid":170001,"bvid":"BV17x411w7KC","cid":279786,"title":" My/Clip "}}`)
	})
	mux.HandleFunc("/x/player/playurl", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "broken") {
			fmt.Fprint(w, `{"code":-404,"message":"video not found"}`)
			return
		}
		fmt.Fprintf(w, `{"code":0,"message":"0","data":{"durl":[{"order":1,"size":%d,"url":"%s/media/clip.mp4"}]}}`, len(api.media), api.server.URL)
	})
	mux.HandleFunc("/media/clip.mp4", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Referer") != utils.PlatformReferer {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		http.ServeContent(w, r, "clip.mp4", time.Time{}, bytes.NewReader(api.media))
	})
	api.server = httptest.NewServer(mux)
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) config() Config {
	return Config{Workers: 2, APIHost: a.server.URL}
}

func newJob(video, dir string) utils.BiliJob {
	return utils.BiliJob{Video: video, OutputDir: dir, Connections: 3, ChunkSize: 1000}
}

type fakeArchiver struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeArchiver) Archive(ctx context.Context, localPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, localPath)
	return "s3://media/" + filepath.Base(localPath), nil
}

func TestRunDownloadsVideo(t *testing.T) {
	api := newFakeAPI(t, 10_000)
	dir := t.TempDir()

	err := run(context.Background(), []utils.BiliJob{newJob("BV17x411w7KC", dir)}, api.config(), output.NewManager())
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "MyClip-BV17x411w7KC.mp4"))
	require.NoError(t, err)
	assert.Equal(t, api.media, got)
	assert.NoDirExists(t, filepath.Join(dir, utils.TempDirName))
}

func TestRunRenewsExistingOutput(t *testing.T) {
	api := newFakeAPI(t, 2048)
	dir := t.TempDir()
	existing := filepath.Join(dir, "MyClip-170001.mp4")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0644))

	err := run(context.Background(), []utils.BiliJob{newJob("av170001", dir)}, api.config(), output.NewManager())
	require.NoError(t, err)

	old, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), old)
	got, err := os.ReadFile(filepath.Join(dir, "MyClip-170001-(1).mp4"))
	require.NoError(t, err)
	assert.Equal(t, api.media, got)
}

func TestRunDuplicateJobsGetDistinctFiles(t *testing.T) {
	api := newFakeAPI(t, 256*1024)
	dir := t.TempDir()
	jobs := []utils.BiliJob{newJob("BV17x411w7KC", dir), newJob("BV17x411w7KC", dir), newJob("BV17x411w7KC", dir)}

	err := run(context.Background(), jobs, api.config(), output.NewManager())
	require.NoError(t, err)

	for _, name := range []string{"MyClip-BV17x411w7KC.mp4", "MyClip-BV17x411w7KC-(1).mp4", "MyClip-BV17x411w7KC-(2).mp4"} {
		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, api.media, got, name)
	}
	assert.NoDirExists(t, filepath.Join(dir, utils.TempDirName))
}

func TestRunSkipsLookupsForKnownEpisode(t *testing.T) {
	api := newFakeAPI(t, 4096)
	dir := t.TempDir()
	job := newJob("BV17x411w7KC", dir)
	job.CID = 279786
	job.Title = "Episode 1"

	err := run(context.Background(), []utils.BiliJob{job}, api.config(), output.NewManager())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "Episode 1-BV17x411w7KC.mp4"))
	assert.Zero(t, api.pageCalls.Load())
	assert.Zero(t, api.viewCalls.Load())
}

func TestRunReportsFailedJobs(t *testing.T) {
	api := newFakeAPI(t, 4096)
	dir := t.TempDir()
	jobs := []utils.BiliJob{
		newJob("BV17x411w7KC", dir),
		{Video: "not a video", OutputDir: dir},
		{Video: "BV1brokenabc", OutputDir: dir, Title: "gone"},
	}

	display := output.NewManager()
	err := run(context.Background(), jobs, api.config(), display)
	require.Error(t, err)
	assert.Equal(t, "2 of 3 jobs failed", err.Error())
	assert.FileExists(t, filepath.Join(dir, "MyClip-BV17x411w7KC.mp4"))

	succeeded, failed := display.Counts()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 2, failed)
}

func TestRunArchivesDownloads(t *testing.T) {
	api := newFakeAPI(t, 4096)
	dir := t.TempDir()
	archiver := &fakeArchiver{}
	cfg := api.config()
	cfg.Archiver = archiver

	err := run(context.Background(), []utils.BiliJob{newJob("BV17x411w7KC", dir)}, cfg, output.NewManager())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "MyClip-BV17x411w7KC.mp4")}, archiver.paths)
}

func TestRunJobTimeout(t *testing.T) {
	api := newFakeAPI(t, 4096)
	job := newJob("BV17x411w7KC", t.TempDir())
	job.Timeout = time.Nanosecond

	err := run(context.Background(), []utils.BiliJob{job}, api.config(), output.NewManager())
	assert.Error(t, err)
}
