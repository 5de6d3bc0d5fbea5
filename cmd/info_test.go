package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/bilidl/internal/bili"
	"github.com/tanq16/bilidl/internal/utils"
)

func newInfoAPI(t *testing.T, routes map[string]string) *bili.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return bili.NewClient(utils.NewBiliHTTPClient(utils.HTTPClientConfig{}), server.URL)
}

func TestMusicFieldWithoutTrack(t *testing.T) {
	for _, body := range []string{`{"code":0,"message":"0"}`, `{"code":0,"message":"0","data":{}}`} {
		api := newInfoAPI(t, map[string]string{"/x/player/wbi/v2": body})
		music, err := musicField(context.Background(), api, bili.AID(1), 2)
		require.NoError(t, err, body)
		assert.Empty(t, music, body)
	}
}

func TestMusicField(t *testing.T) {
	api := newInfoAPI(t, map[string]string{
		"/x/player/wbi/v2": `{"code":0,"message":"0","data":{"bgm_info":{"music_id":"MA1","music_title":"Song"}}}`,
	})
	music, err := musicField(context.Background(), api, bili.AID(1), 2)
	require.NoError(t, err)
	assert.Equal(t, "Song (MA1)", music)
}

func TestMusicFieldAPIError(t *testing.T) {
	api := newInfoAPI(t, map[string]string{"/x/player/wbi/v2": `{"code":-400,"message":"bad request"}`})
	_, err := musicField(context.Background(), api, bili.AID(1), 2)
	var apiErr *bili.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestSeasonField(t *testing.T) {
	api := newInfoAPI(t, map[string]string{
		"/x/web-interface/view": `{"code":0,"message":"0","data":{"aid":1,"is_season_display":true,"season_id":4242}}`,
	})
	season, err := seasonField(context.Background(), api, bili.AID(1))
	require.NoError(t, err)
	assert.Equal(t, "4242", season)

	api = newInfoAPI(t, map[string]string{
		"/x/web-interface/view": `{"code":0,"message":"0","data":{"aid":1}}`,
	})
	season, err = seasonField(context.Background(), api, bili.AID(1))
	require.NoError(t, err)
	assert.Empty(t, season)
}

func TestSeasonFieldReportsErrors(t *testing.T) {
	api := newInfoAPI(t, map[string]string{})
	_, err := seasonField(context.Background(), api, bili.AID(1))
	assert.Error(t, err)
}
