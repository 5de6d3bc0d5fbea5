package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tanq16/bilidl/internal/bili"
	"github.com/tanq16/bilidl/internal/output"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [VIDEO_ID]",
		Short: "Show metadata for a video without downloading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := bili.ParseVideoID(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			api := newAPIClient()

			view, err := api.View(ctx, id)
			if err != nil {
				return err
			}
			page, err := api.BasicInfo(ctx, id)
			if err != nil {
				return err
			}
			output.PrintHeader(view.Title)
			output.PrintField("aid", view.AID)
			output.PrintField("bvid", view.BVID)
			output.PrintField("cid", page.CID)
			output.PrintField("owner", fmt.Sprintf("%s (%d)", view.Owner.Name, view.Owner.UID))
			if season, err := seasonField(ctx, api, id); err != nil {
				output.PrintWarning(fmt.Sprintf("Could not load season: %v", err))
			} else if season != "" {
				output.PrintField("season", season)
			}
			if music, err := musicField(ctx, api, id, page.CID); err != nil {
				output.PrintWarning(fmt.Sprintf("Could not load background music: %v", err))
			} else if music != "" {
				output.PrintField("music", music)
			}
			return nil
		},
	}
}

// seasonField is empty when the video is not part of a season.
func seasonField(ctx context.Context, api *bili.Client, id bili.VideoID) (string, error) {
	seasonID, ok, err := api.SeasonID(ctx, id)
	if err != nil || !ok {
		return "", err
	}
	return strconv.FormatUint(seasonID, 10), nil
}

// musicField is empty when the video has no background track. The player endpoint answers
// such videos without data, which is not worth a warning.
func musicField(ctx context.Context, api *bili.Client, id bili.VideoID, cid uint64) (string, error) {
	music, err := api.MusicInfo(ctx, id, cid)
	if errors.Is(err, bili.ErrUnexpectedResponse) {
		return "", nil
	}
	if err != nil || music == nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s)", music.Title, music.MusicID), nil
}
