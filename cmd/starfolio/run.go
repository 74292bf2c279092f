package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/starfolio/asset"
	"github.com/lixenwraith/starfolio/config"
	"github.com/lixenwraith/starfolio/core"
	"github.com/lixenwraith/starfolio/engine"
	"github.com/lixenwraith/starfolio/parameter"
	"github.com/lixenwraith/starfolio/roster"
	"github.com/lixenwraith/starfolio/scene"
)

var (
	watch     bool
	seed      int64
	colorMode string
	noAudio   bool

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Open the interactive view (default command)",
		RunE:  runView,
	}
)

func init() {
	rootCmd.AddCommand(runCmd)

	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().BoolVarP(&watch, "watch", "w", false,
			"Rebuild the world when the roster file changes")
		cmd.Flags().Int64Var(&seed, "seed", 0,
			"Cosmetic random seed; 0 draws fresh variety every run")
		cmd.Flags().StringVar(&colorMode, "color", "",
			"Color mode: auto, truecolor, 256")
		cmd.Flags().BoolVar(&noAudio, "mute", false,
			"Disable typewriter audio")
	}
}

// loadSettings merges the config file with flags that were set explicitly
func loadSettings(cmd *cobra.Command) (*config.Config, *roster.Roster, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("roster") {
		cfg.RosterPath = rosterPath
	}
	if flags.Changed("portraits") {
		cfg.PortraitDir = portraitDir
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("color") {
		cfg.ColorMode = colorMode
	}
	if noAudio {
		cfg.Audio = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	r := roster.Default()
	if cfg.RosterPath != "" {
		if r, err = roster.Load(cfg.RosterPath); err != nil {
			return nil, nil, err
		}
	}
	return cfg, r, nil
}

func runView(cmd *cobra.Command, _ []string) error {
	log, closeLog, err := setupLogging(debug)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, r, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	// A panic anywhere must leave the terminal usable
	core.SetCrashScreen(screen)
	core.SetCrashLogger(log)
	defer func() {
		if rec := recover(); rec != nil {
			core.HandleCrash(rec)
		}
	}()

	var portraits scene.PortraitSource
	if cfg.PortraitDir != "" {
		portraits = asset.NewLoader(cfg.PortraitDir, parameter.PortraitSize, log.Named("portraits"))
	}

	view, err := engine.New(engine.Options{
		Config:    cfg,
		Roster:    r,
		Screen:    screen,
		Portraits: portraits,
		Log:       log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch && cfg.RosterPath != "" {
		w, err := watchRoster(ctx, cfg.RosterPath, screen, log.Named("watch"))
		if err != nil {
			log.Warnw("roster watch unavailable", "error", err)
		} else {
			defer w.Close()
		}
	}

	log.Infow("view started", "roster", cfg.RosterPath, "seed", cfg.Seed, "fps", cfg.FPS)
	runErr := view.Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	closeErr := view.Close()
	if closeErr != nil {
		log.Errorw("teardown incomplete", "error", closeErr)
	}
	log.Infow("view stopped", "frames", view.Frames(), "elapsed", view.Elapsed())
	if runErr != nil {
		return runErr
	}
	return closeErr
}
