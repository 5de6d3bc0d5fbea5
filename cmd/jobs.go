package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/bilidl/internal/archive"
	"github.com/tanq16/bilidl/internal/bili"
	"github.com/tanq16/bilidl/internal/output"
	"github.com/tanq16/bilidl/internal/scheduler"
	"github.com/tanq16/bilidl/internal/utils"
)

func newJob(video, dir string) utils.BiliJob {
	return utils.BiliJob{
		ID:          utils.NewJobID(),
		Video:       video,
		OutputDir:   dir,
		Quality:     quality,
		Connections: connections,
		ChunkSize:   chunkSize,
		Timeout:     timeout,
	}
}

// buildVideoJobs turns av or bv arguments into jobs, rejecting ids of the other kind.
func buildVideoJobs(ids []string, wantAID bool, dir string) ([]utils.BiliJob, error) {
	var jobs []utils.BiliJob
	for _, raw := range ids {
		id, err := bili.ParseVideoID(raw)
		if err != nil {
			return nil, err
		}
		if id.IsAID() != wantAID {
			kind := "bv"
			if wantAID {
				kind = "av"
			}
			return nil, fmt.Errorf("expected %s id, got %s", kind, raw)
		}
		jobs = append(jobs, newJob(id.String(), dir))
	}
	return jobs, nil
}

// buildSeasonJobs expands each id into the episodes of its season, saved under a folder named
// after the season. Ids outside a season are reported and skipped.
func buildSeasonJobs(ctx context.Context, api *bili.Client, ids []string, dir string) ([]utils.BiliJob, error) {
	var jobs []utils.BiliJob
	for _, raw := range ids {
		id, err := bili.ParseVideoID(raw)
		if err != nil {
			return nil, err
		}
		season, err := api.SeasonList(ctx, id)
		if err != nil {
			log.Error().Str("op", "cmd/season").Err(err).Msgf("Skipping %s", raw)
			output.PrintWarning(fmt.Sprintf("Skipping %s: %v", raw, err))
			continue
		}
		seasonDir := filepath.Join(dir, utils.SanitizeFileName(season.Name))
		log.Info().Str("op", "cmd/season").Msgf("Season %q has %d episodes", season.Name, len(season.Episodes))
		for _, ep := range season.Episodes {
			job := newJob(ep.BVID, seasonDir)
			if ep.BVID == "" {
				job.Video = bili.AID(ep.AID).String()
			}
			job.CID = ep.CID
			job.Title = ep.Title
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func newAPIClient() *bili.Client {
	return bili.NewClient(utils.NewBiliHTTPClient(globalHTTPConfig), apiHost)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runJobs(ctx context.Context, jobs []utils.BiliJob) error {
	if len(jobs) == 0 {
		return fmt.Errorf("no videos to download")
	}
	cfg := scheduler.Config{
		Workers: workers,
		APIHost: apiHost,
		HTTP:    globalHTTPConfig,
	}
	if s3Dest != "" {
		archiver, err := archive.NewS3Archiver(ctx, s3Profile, s3Dest)
		if err != nil {
			return err
		}
		cfg.Archiver = archiver
	}
	return scheduler.Run(ctx, jobs, cfg)
}
