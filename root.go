package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/schacon/slidetty/internal/config"
	"github.com/schacon/slidetty/internal/deck"
	"github.com/schacon/slidetty/internal/logging"
	"github.com/schacon/slidetty/internal/navigator"
	"github.com/schacon/slidetty/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "slidetty [dir]",
	Short: "Present a directory of markdown slides in the terminal",
	Long: `slidetty presents the markdown files of a directory as slides.

Inside a slide, a standalone <!-- step --> comment starts an item that is
revealed one keypress at a time. Right/space advance, left goes back, up/down
jump whole slides, home/end go to the first and last slide.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		return present(cfg)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
}

func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	if len(args) > 0 && !cmd.Flags().Changed("dir") {
		cfg.Slides.Dir = args[0]
	}
	return cfg, nil
}

func loadDeck(cfg config.Config) (*deck.Deck, error) {
	d, err := deck.Load(cfg.Slides.Dir, deck.ParseOptions{IncrementalLists: cfg.Slides.IncrementalLists})
	if errors.Is(err, deck.ErrEmptyDeck) {
		return nil, fmt.Errorf("no slides in %s: add *.md files", cfg.Slides.Dir)
	}
	return d, err
}

func present(cfg config.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal; use 'slidetty inspect' to print the deck")
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	d, err := loadDeck(cfg)
	if err != nil {
		return err
	}
	logger.Info("deck loaded",
		zap.String("dir", cfg.Slides.Dir),
		zap.Int("slides", d.Len()),
		zap.Ints("steps", d.StepCounts()))

	sched := tui.NewScheduler()
	nav, err := navigator.New(d.StepCounts(),
		navigator.WithScheduler(sched),
		navigator.WithExitDelay(cfg.Transition.ExitDelay),
		navigator.WithSettleDelay(cfg.Transition.SettleDelay),
		navigator.WithLockTimeout(cfg.Transition.LockTimeout),
		navigator.WithLogger(logger.Named("navigator")))
	if err != nil {
		return err
	}

	m, err := tui.New(d, nav, sched, tui.Options{
		Title:    cfg.Slides.Title,
		Style:    cfg.Render.Style,
		WordWrap: cfg.Render.WordWrap,
		Mouse:    cfg.Render.Mouse,
		Logger:   logger.Named("tui"),
	})
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Render.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
