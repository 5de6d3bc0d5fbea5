package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/bilidl/internal/bili"
	"github.com/tanq16/bilidl/internal/utils"
)

// newSeasonAPI knows a single season reachable from BV1aaaaaaaaa; other ids are not in one.
func newSeasonAPI(t *testing.T) *bili.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/x/web-interface/view/detail" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("bvid") != "BV1aaaaaaaaa" {
			fmt.Fprint(w, `{"code":0,"message":"0","data":{"View":{"aid":5,"title":"solo"}}}`)
			return
		}
		fmt.Fprint(w, `{"code":0,"message":"0","data":{"View":{"aid":1,"title":"ep1","owner":{"mid":7,"name":"up"},
			"ugc_season":{"id":4242,"title":"Course/Part 1","sections":[{"episodes":[
			{"aid":1,"bvid":"BV1aaaaaaaaa","cid":11,"title":"ep1"},
			{"aid":2,"bvid":"BV1bbbbbbbbb","cid":22,"title":"ep2"}]}]}}}}`)
	}))
	t.Cleanup(server.Close)
	return bili.NewClient(utils.NewBiliHTTPClient(utils.HTTPClientConfig{}), server.URL)
}

func TestBuildVideoJobs(t *testing.T) {
	jobs, err := buildVideoJobs([]string{"170001", "av170002"}, true, "out")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "170001", jobs[0].Video)
	assert.Equal(t, "170002", jobs[1].Video)
	assert.Equal(t, "out", jobs[0].OutputDir)
	assert.NotEqual(t, jobs[0].ID, jobs[1].ID)

	jobs, err = buildVideoJobs([]string{"https://www.bilibili.com/video/BV17x411w7KC/"}, false, "out")
	require.NoError(t, err)
	assert.Equal(t, "BV17x411w7KC", jobs[0].Video)
}

func TestBuildVideoJobsRejectsWrongKind(t *testing.T) {
	_, err := buildVideoJobs([]string{"BV17x411w7KC"}, true, ".")
	assert.EqualError(t, err, "expected av id, got BV17x411w7KC")
	_, err = buildVideoJobs([]string{"170001"}, false, ".")
	assert.EqualError(t, err, "expected bv id, got 170001")
	_, err = buildVideoJobs([]string{"garbage"}, false, ".")
	assert.Error(t, err)
}

func TestBuildSeasonJobs(t *testing.T) {
	api := newSeasonAPI(t)
	jobs, err := buildSeasonJobs(context.Background(), api, []string{"BV1aaaaaaaaa", "BV1zzzzzzzzz"}, "out")
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, filepath.Join("out", "CoursePart 1"), jobs[0].OutputDir)
	assert.Equal(t, "BV1bbbbbbbbb", jobs[1].Video)
	assert.Equal(t, uint64(22), jobs[1].CID)
	assert.Equal(t, "ep2", jobs[1].Title)
}

func TestReadBatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
av:
  - id: "170001"
    op: clips
bv:
  - id: BV17x411w7KC
season:
  - id: BV1aaaaaaaaa
`), 0644))

	batch, err := readBatchFile(path)
	require.NoError(t, err)
	require.Len(t, batch.AV, 1)
	assert.Equal(t, "clips", batch.AV[0].OutputDir)
	assert.Equal(t, "BV17x411w7KC", batch.BV[0].ID)
	assert.Equal(t, "BV1aaaaaaaaa", batch.Season[0].ID)

	_, err = readBatchFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildJobsFromBatch(t *testing.T) {
	api := newSeasonAPI(t)
	batch := utils.BatchFile{
		AV:     []utils.BatchEntry{{ID: "170001", OutputDir: "clips"}, {ID: "BV17x411w7KC"}},
		BV:     []utils.BatchEntry{{ID: "BV17x411w7KC"}},
		Season: []utils.BatchEntry{{ID: "BV1aaaaaaaaa"}},
	}
	jobs, err := buildJobsFromBatch(context.Background(), api, batch, "root")
	require.NoError(t, err)
	require.Len(t, jobs, 4)
	assert.Equal(t, filepath.Join("root", "clips"), jobs[0].OutputDir)
	assert.Equal(t, "root", jobs[1].OutputDir)
	assert.Equal(t, filepath.Join("root", "CoursePart 1"), jobs[2].OutputDir)
}

func TestBuildJobsFromEmptyBatch(t *testing.T) {
	_, err := buildJobsFromBatch(context.Background(), newSeasonAPI(t), utils.BatchFile{}, ".")
	assert.Error(t, err)
}
