package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zeusync/worldcore/internal/core/observability/log"
	"github.com/zeusync/worldcore/internal/core/world"
	"github.com/zeusync/worldcore/internal/demo"
	"github.com/zeusync/worldcore/internal/injector"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config     string
	Ticks      int
	Worlds     int
	Parallel   int
	NoSimulate bool
}

func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Tick demo worlds and print their summaries",
		Long: `Build the demo scene in --worlds independent worlds and tick them
--ticks times in parallel.

Example:
  worldsim run --ticks 120 --worlds 4
  worldsim run --config ./world.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorlds(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "path to a world YAML config")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 60, "number of ticks to run")
	cmd.Flags().IntVar(&opts.Worlds, "worlds", 1, "number of worlds to run in parallel")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "max worlds ticking at once (0 = all)")
	cmd.Flags().BoolVar(&opts.NoSimulate, "no-simulate", false, "pause gameplay-only update functions")

	return cmd
}

func runWorlds(cmd *cobra.Command, opts *RunOptions) error {
	if opts.Ticks < 0 || opts.Worlds < 1 || opts.Parallel < 0 {
		return WrapExitError(ExitCommandError, "--ticks and --parallel must be >= 0 and --worlds >= 1", nil)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	types, err := injector.ProvideTypeRegistry()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to register message types", err)
	}

	scenes := make([]*demo.Scene, 0, opts.Worlds)
	worlds := make([]*world.World, 0, opts.Worlds)
	for i := 0; i < opts.Worlds; i++ {
		worldCfg := cfg
		worldCfg.Index = cfg.Index + i
		if opts.Worlds > 1 {
			worldCfg.Name = fmt.Sprintf("%s-%d", cfg.Name, i)
		}
		scene, err := injector.InitializeScene(worldCfg, types)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to build world", err)
		}
		scenes = append(scenes, scene)
		worlds = append(worlds, scene.World)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.Provide()
	logger.Info("running worlds", log.Int("worlds", len(worlds)), log.Int("ticks", opts.Ticks))
	runner := world.NewRunner(logger, worlds...)
	runner.SetParallel(opts.Parallel)
	if err := runner.Run(ctx, opts.Ticks); err != nil {
		return WrapExitError(ExitFailure, "run failed", err)
	}

	summaries := make([]demo.Summary, len(scenes))
	for i, s := range scenes {
		summaries[i] = s.Summary()
	}
	return write(cmd.OutOrStdout(), opts.Format, summaries, func(w io.Writer) error {
		for _, s := range summaries {
			if _, err := fmt.Fprintf(w,
				"%s: ticks=%d time=%s front=%d(open=%t) garage=%d(open=%t) relay=%d alarms=%d sent=%d posted=%d misses=%d\n",
				s.World, s.Ticks, s.Time, s.FrontToggle, s.FrontOpen, s.GarageToggle, s.GarageOpen,
				s.RelaySeen, s.Alarms, s.Sent, s.Posted, s.CacheMisses,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func loadConfig(opts *RunOptions) (world.Config, error) {
	cfg := world.DefaultConfig()
	if opts.Config != "" {
		var err error
		if cfg, err = world.LoadFile(opts.Config); err != nil {
			return cfg, err
		}
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	if opts.NoSimulate {
		cfg.Simulating = false
	}
	return cfg, cfg.Validate()
}
