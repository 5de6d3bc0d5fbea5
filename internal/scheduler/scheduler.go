package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/bilidl/internal/bili"
	"github.com/tanq16/bilidl/internal/engine"
	"github.com/tanq16/bilidl/internal/output"
	"github.com/tanq16/bilidl/internal/utils"
)

// Archiver receives every finished file when archiving is enabled.
type Archiver interface {
	Archive(ctx context.Context, localPath string) (string, error)
}

type Config struct {
	Workers  int
	APIHost  string
	HTTP     utils.HTTPClientConfig
	Archiver Archiver
}

// worker bundles what every job needs. The API client and the chunk fetcher share one transport.
type worker struct {
	api      *bili.Client
	engine   *engine.Engine
	display  *output.Manager
	archiver Archiver
	paths    *pathClaims
}

// Run downloads jobs with cfg.Workers videos in flight and returns an error if any job failed.
func Run(ctx context.Context, jobs []utils.BiliJob, cfg Config) error {
	display := output.NewManager()
	display.StartDisplay()
	defer display.StopDisplay()
	return run(ctx, jobs, cfg, display)
}

func run(ctx context.Context, jobs []utils.BiliJob, cfg Config, display *output.Manager) error {
	client := utils.NewBiliHTTPClient(cfg.HTTP)
	w := &worker{
		api:      bili.NewClient(client, cfg.APIHost),
		engine:   engine.New(engine.NewHTTPFetcher(client), engine.WithObserver(display)),
		display:  display,
		archiver: cfg.Archiver,
		paths:    newPathClaims(),
	}

	jobCh := make(chan utils.BiliJob, len(jobs))
	for _, job := range jobs {
		if job.ID == "" {
			job.ID = utils.NewJobID()
		}
		display.Register(job.ID, job.Video)
		jobCh <- job
	}
	close(jobCh)

	numWorkers := max(1, min(cfg.Workers, len(jobs)))
	log.Debug().Str("op", "scheduler/run").Msgf("Running %d jobs with %d workers", len(jobs), numWorkers)
	var failed sync.Map
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if err := w.process(ctx, job); err != nil {
					log.Error().Str("op", "scheduler/run").Str("id", job.ID).Err(err).Msgf("Job for %s failed", job.Video)
					display.ReportError(job.ID, err)
					failed.Store(job.ID, err)
				}
			}
		}()
	}
	wg.Wait()
	w.paths.removeEmptyTempDirs()

	count := 0
	failed.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 0 {
		return fmt.Errorf("%d of %d jobs failed", count, len(jobs))
	}
	return nil
}
