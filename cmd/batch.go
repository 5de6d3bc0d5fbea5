package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanq16/bilidl/internal/bili"
	"github.com/tanq16/bilidl/internal/utils"
	"gopkg.in/yaml.v3"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Process multiple downloads from a YAML file",
		Long: `Process multiple downloads from a YAML file. Each section lists ids with an optional
output directory ("op") that overrides --output.

Example file:
  av:
    - id: "170001"
      op: "clips"
  bv:
    - id: "BV17x411w7KC"
  season:
    - id: "BV13m421J7fM"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := readBatchFile(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			jobs, err := buildJobsFromBatch(ctx, newAPIClient(), batch, outputDir)
			if err != nil {
				return err
			}
			return runJobs(ctx, jobs)
		},
	}
}

func readBatchFile(path string) (utils.BatchFile, error) {
	var batch utils.BatchFile
	data, err := os.ReadFile(path)
	if err != nil {
		return batch, fmt.Errorf("error reading YAML file: %v", err)
	}
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return batch, fmt.Errorf("error parsing YAML file: %v", err)
	}
	return batch, nil
}

func entryDir(entry utils.BatchEntry, dir string) string {
	if entry.OutputDir == "" {
		return dir
	}
	if filepath.IsAbs(entry.OutputDir) {
		return entry.OutputDir
	}
	return filepath.Join(dir, entry.OutputDir)
}

// buildJobsFromBatch keeps going past bad entries; only an empty result is an error.
func buildJobsFromBatch(ctx context.Context, api *bili.Client, batch utils.BatchFile, dir string) ([]utils.BiliJob, error) {
	var jobs []utils.BiliJob
	sections := []struct {
		name    string
		entries []utils.BatchEntry
		wantAID bool
	}{
		{"av", batch.AV, true},
		{"bv", batch.BV, false},
	}
	for _, section := range sections {
		for _, entry := range section.entries {
			built, err := buildVideoJobs([]string{entry.ID}, section.wantAID, entryDir(entry, dir))
			if err != nil {
				log.Warn().Str("op", "cmd/batch").Err(err).Msgf("Skipping entry in %s section", section.name)
				continue
			}
			jobs = append(jobs, built...)
		}
	}
	for _, entry := range batch.Season {
		built, err := buildSeasonJobs(ctx, api, []string{entry.ID}, entryDir(entry, dir))
		if err != nil {
			log.Warn().Str("op", "cmd/batch").Err(err).Msg("Skipping entry in season section")
			continue
		}
		jobs = append(jobs, built...)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no valid jobs found in the batch file")
	}
	return jobs, nil
}
