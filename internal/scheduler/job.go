package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/bilidl/internal/bili"
	"github.com/tanq16/bilidl/internal/engine"
	"github.com/tanq16/bilidl/internal/output"
	"github.com/tanq16/bilidl/internal/utils"
)

func (w *worker) process(ctx context.Context, job utils.BiliJob) error {
	id, err := bili.ParseVideoID(job.Video)
	if err != nil {
		return err
	}
	quality, err := bili.ParseQuality(job.Quality)
	if err != nil {
		return err
	}
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	w.display.SetMessage(job.ID, "Resolving "+id.String())
	if err := w.resolve(ctx, id, &job); err != nil {
		return err
	}
	play, err := w.api.PlayURL(ctx, id, job.CID, quality)
	if err != nil {
		return fmt.Errorf("error resolving play url: %w", err)
	}
	log.Debug().Str("op", "scheduler/job").Str("id", job.ID).Msgf("Resolved %s to %d bytes at quality %s", id, play.Size, quality)

	name := filepath.Base(job.OutputPath)
	w.display.SetMessage(job.ID, "Downloading "+name)
	tempPath := utils.TempPath(job.OutputPath)
	if err := w.download(ctx, job, play, tempPath); err != nil {
		return err
	}
	if err := os.Rename(tempPath, job.OutputPath); err != nil {
		return fmt.Errorf("error moving download into place: %v", err)
	}
	message := fmt.Sprintf("Downloaded %s (%s)", name, output.FormatBytes(uint64(play.Size)))
	if w.archiver != nil {
		w.display.SetMessage(job.ID, "Archiving "+name)
		location, err := w.archiver.Archive(ctx, job.OutputPath)
		if err != nil {
			return err
		}
		message += " to " + location
	}
	w.display.Complete(job.ID, message)
	return nil
}

// resolve fills in the cid, title and final output path the job was created without.
func (w *worker) resolve(ctx context.Context, id bili.VideoID, job *utils.BiliJob) error {
	if job.CID == 0 {
		page, err := w.api.BasicInfo(ctx, id)
		if err != nil {
			return fmt.Errorf("error resolving video info: %w", err)
		}
		job.CID = page.CID
	}
	if job.OutputPath == "" {
		if job.Title == "" {
			view, err := w.api.View(ctx, id)
			if err != nil {
				return fmt.Errorf("error resolving video title: %w", err)
			}
			job.Title = view.Title
		}
		job.OutputPath = filepath.Join(job.OutputDir, utils.VideoFileName(job.Title, id.String()))
	}
	job.OutputPath = w.paths.claim(job.OutputPath)
	return nil
}

func (w *worker) download(ctx context.Context, job utils.BiliJob, play *bili.PlayURL, tempPath string) error {
	if err := os.MkdirAll(filepath.Dir(tempPath), 0755); err != nil {
		return fmt.Errorf("error creating temp directory: %v", err)
	}
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("error creating temp file: %v", err)
	}
	err = w.engine.Download(ctx, engine.Task{
		ID:          job.ID,
		Media:       engine.MediaDescriptor{Size: play.Size, URL: play.URL},
		ChunkSize:   job.ChunkSize,
		Connections: job.Connections,
	}, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = &engine.IOError{Op: "close", Err: closeErr}
	}
	return err
}
