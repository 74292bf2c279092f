package main

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfolio/config"
	"github.com/lixenwraith/starfolio/director"
	"github.com/lixenwraith/starfolio/interact"
	"github.com/lixenwraith/starfolio/roster"
	"github.com/lixenwraith/starfolio/scene"
	"github.com/lixenwraith/starfolio/ui"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the path checkpoints as JSON",
	Long:  `Builds the world headless and prints every named checkpoint with its time, progress and phase.`,
	Args:  cobra.NoArgs,
	RunE:  runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

// timelineReport is the JSON document the timeline command prints
type timelineReport struct {
	Title       string                `json:"title"`
	Duration    float64               `json:"duration"`
	SunArrival  float64               `json:"sun_arrival"`
	Checkpoints []director.Checkpoint `json:"checkpoints"`
}

// buildTimeline lays out the path for r without a screen
func buildTimeline(cfg *config.Config, r *roster.Roster, log *zap.SugaredLogger) timelineReport {
	root := scene.Build(scene.BuildConfig{
		Roster:      r,
		Seed:        cfg.Seed,
		TextureSize: cfg.TextureSize,
		Context:     context.Background(),
		Log:         log,
	})
	defer func() {
		if err := root.Dispose(); err != nil {
			log.Warnw("dispose after timeline", "error", err)
		}
	}()

	pace := director.DefaultPacing()
	pace.Scale(cfg.TimeScale)
	// Reading holds are sized by the typewriter, so the report needs one to match the view
	board := ui.NewBoard(r.Title, r.Closing)
	typer := interact.NewTypewriter(clock.New(), cfg.TypewriterInterval.D(), board, nil)
	d := director.New(root, r, director.Sinks{Board: board, Typer: typer, Log: log}, pace)
	return timelineReport{
		Title:       r.Title,
		Duration:    d.Duration(),
		SunArrival:  d.SunArrival(),
		Checkpoints: d.Checkpoints(),
	}
}

func runTimeline(cmd *cobra.Command, _ []string) error {
	log, closeLog, err := setupLogging(debug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, r, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out, err := sonic.ConfigStd.MarshalIndent(buildTimeline(cfg, r, log), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode timeline")
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
