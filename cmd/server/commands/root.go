package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/rectboard/internal/config"
	"github.com/inamate/rectboard/internal/engine"
)

var (
	cfg *config.Config

	port               int
	minResize          float64
	marqueeMinSize     float64
	rollbackOnDeselect bool
)

func Execute() error {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("rectboard", "error", err)
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rectboard",
		Short:         "Shape board editing server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("min-resize") {
				cfg.MinResize = minResize
			}
			if flags.Changed("marquee-min-size") {
				cfg.MarqueeMinSize = marqueeMinSize
			}
			if flags.Changed("rollback-on-deselect") {
				cfg.RollbackOnDeselect = rollbackOnDeselect
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
			return nil
		},
	}

	root.PersistentFlags().Float64Var(&minResize, "min-resize", engine.DefaultMinResize, "smallest width or height a handle resize may produce")
	root.PersistentFlags().Float64Var(&marqueeMinSize, "marquee-min-size", engine.DefaultMinResize, "smallest marquee that creates a shape (0 accepts any)")
	root.PersistentFlags().BoolVar(&rollbackOnDeselect, "rollback-on-deselect", true, "roll back a pending edit when the selection is cleared")

	root.AddCommand(serveCmd(), replayCmd())
	return root
}

func engineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.MinResize = cfg.MinResize
	opts.MarqueeMinSize = cfg.MarqueeMinSize
	opts.RollbackOnDeselect = cfg.RollbackOnDeselect
	return opts
}
