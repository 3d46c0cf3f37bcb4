package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vladimirvolkov/courtside/internal/config"
	"github.com/vladimirvolkov/courtside/internal/frontend"
	"github.com/vladimirvolkov/courtside/internal/frontend/desktop"
	"github.com/vladimirvolkov/courtside/internal/frontend/terminal"
	"github.com/vladimirvolkov/courtside/internal/game"
	"github.com/vladimirvolkov/courtside/internal/input"
	"github.com/vladimirvolkov/courtside/internal/logging"
	"github.com/vladimirvolkov/courtside/internal/replay"
	"github.com/vladimirvolkov/courtside/internal/sfx"
)

const (
	uiDesktop  = "desktop"
	uiTerminal = "terminal"
	uiNone     = "none"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:          "courtside",
		Short:        "2D arcade basketball against a scripted opponent",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "courtside.yaml", "Config file (missing file uses defaults)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (overrides config)")

	root.AddCommand(newPlayCmd(&g), newReplayCmd(&g))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config and builds a logger suited to ui. The terminal ui
// owns stderr, so console logging is turned off there.
func setup(g *globalFlags, ui string) (*config.Config, *zap.Logger, func(), error) {
	switch ui {
	case uiDesktop, uiTerminal, uiNone:
	default:
		return nil, nil, nil, fmt.Errorf("unknown ui %q (want desktop, terminal or none)", ui)
	}

	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if ui == uiTerminal {
		cfg.Logging.Console = false
	}

	log, syncLog, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, syncLog, nil
}

func newPlayCmd(g *globalFlags) *cobra.Command {
	var (
		ui        string
		seed      uint64
		record    string
		opponents int
		mute      bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a match",
		Long: `Play a match against the scripted opponent.

A seed of 0 uses the config seed, and a config seed of 0 picks a fresh one.
With --record every tick's input is written to FILE for "courtside replay".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ui == uiNone {
				return errors.New("play needs a desktop or terminal ui")
			}
			cfg, log, syncLog, err := setup(g, ui)
			if err != nil {
				return err
			}
			defer syncLog()

			settings := cfg.Match
			if seed != 0 {
				settings.Seed = seed
			}
			if settings.Seed == 0 {
				settings.Seed = uint64(time.Now().UnixNano())
			}
			if cmd.Flags().Changed("opponents") {
				if opponents < 1 || opponents > game.MaxOpponents {
					return fmt.Errorf("--opponents must be between 1 and %d", game.MaxOpponents)
				}
				settings.Opponents = opponents
			}

			opts := []frontend.Option{frontend.WithLogger(log)}
			if record != "" {
				f, err := os.Create(record)
				if err != nil {
					return fmt.Errorf("create replay: %w", err)
				}
				defer f.Close()
				rec, err := replay.NewRecorder(f, replay.NewHeader(cfg.Tuning, settings))
				if err != nil {
					return err
				}
				opts = append(opts, frontend.WithRecorder(rec))
			}
			if cfg.Client.Sound && !mute {
				p := sfx.New(log)
				if err := p.Init(); err == nil {
					defer p.Close()
					opts = append(opts, frontend.WithSounds(p))
				}
			}

			log.Info("match starting", zap.String("ui", ui), zap.Uint64("seed", settings.Seed),
				zap.Int("opponents", settings.Opponents))

			switch ui {
			case uiDesktop:
				if missing := desktop.Unbound(cfg.Controls); len(missing) > 0 {
					log.Warn("keys not available on desktop", zap.Strings("keys", missing))
				}
				d := frontend.NewDriver(cfg.Tuning, settings, desktop.Keys(cfg.Controls), opts...)
				err = desktop.Run(d, desktop.Options{Title: "Courtside", Scale: float64(cfg.Client.Scale), Log: log})
				return finish(cmd.OutOrStdout(), d, err)

			default:
				tracker := input.NewKeyTracker()
				tracker.FirstHold = cfg.Client.FirstHold
				tracker.RepeatHold = cfg.Client.RepeatHold
				d := frontend.NewDriver(cfg.Tuning, settings, terminal.Keys(tracker, cfg.Controls), opts...)
				err = runTerminal(cmd.Context(), d, terminal.Options{Tracker: tracker, Log: log})
				return finish(cmd.OutOrStdout(), d, err)
			}
		},
	}
	cmd.Flags().StringVar(&ui, "ui", uiDesktop, "Frontend: desktop or terminal")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Match seed (0 uses the config)")
	cmd.Flags().StringVar(&record, "record", "", "Write a replay to `FILE`")
	cmd.Flags().IntVar(&opponents, "opponents", 1, "Purple roster size")
	cmd.Flags().BoolVar(&mute, "mute", false, "Disable sound")
	return cmd
}

func newReplayCmd(g *globalFlags) *cobra.Command {
	var ui string
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay a recorded match",
		Long: `Replay a recorded match. With --ui none the replay runs headless and
prints the final score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, syncLog, err := setup(g, ui)
			if err != nil {
				return err
			}
			defer syncLog()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open replay: %w", err)
			}
			defer f.Close()
			rd, err := replay.NewReader(f)
			if err != nil {
				return err
			}
			log.Info("replaying", zap.String("file", args[0]), zap.Uint64("seed", rd.Header.Settings.Seed),
				zap.Time("recorded", rd.Header.RecordedAt))

			if ui == uiNone {
				m, frames, err := replay.Run(rd, game.WithLogger(log))
				if err != nil {
					return err
				}
				st := m.State()
				fmt.Fprintf(cmd.OutOrStdout(), "%d frames\n", frames)
				summarize(cmd.OutOrStdout(), &st)
				return nil
			}

			d := frontend.NewDriver(rd.Header.Tuning, rd.Header.Settings, rd, frontend.WithLogger(log))
			if ui == uiDesktop {
				err = desktop.Run(d, desktop.Options{Title: "Courtside replay", Scale: 1, Log: log})
			} else {
				err = runTerminal(cmd.Context(), d, terminal.Options{Log: log})
			}
			return finish(cmd.OutOrStdout(), d, err)
		},
	}
	cmd.Flags().StringVar(&ui, "ui", uiNone, "Frontend: desktop, terminal or none")
	return cmd
}

func runTerminal(ctx context.Context, d *frontend.Driver, opts terminal.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return terminal.Run(ctx, screen, d, opts)
}

// finish flushes any replay being recorded and prints the final score.
func finish(w io.Writer, d *frontend.Driver, runErr error) error {
	closeErr := d.Close()
	summarize(w, d.State())
	return errors.Join(runErr, closeErr)
}

func summarize(w io.Writer, s *game.GameState) {
	fmt.Fprintf(w, "tick %d  RED %d - %d PURPLE", s.Tick, s.Score[game.TeamRed], s.Score[game.TeamPurple])
	if s.Phase == game.PhaseGameOver {
		if s.Winner == game.NoTeam {
			fmt.Fprint(w, "  draw")
		} else {
			fmt.Fprintf(w, "  %s wins", s.Winner)
		}
	}
	fmt.Fprintln(w)
}
