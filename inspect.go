package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/schacon/slidetty/internal/deck"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [dir]",
	Short: "Print the slides of a deck and their step counts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		d, err := loadDeck(cfg)
		if err != nil {
			return err
		}
		title := cfg.Slides.Title
		if title == "" {
			title = d.Title
		}
		writeInspect(cmd.OutOrStdout(), title, d, termenv.EnvColorProfile())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func writeInspect(w io.Writer, title string, d *deck.Deck, p termenv.Profile) {
	if title != "" {
		fmt.Fprintln(w, p.String(title).Foreground(p.Color("#818cf8")).Bold())
	}
	total := 0
	for i, s := range d.Slides {
		name := p.String(s.Name).Foreground(p.Color("#c084fc"))
		steps := "no steps"
		switch s.Steps {
		case 0:
		case 1:
			steps = "1 step"
		default:
			steps = fmt.Sprintf("%d steps", s.Steps)
		}
		fmt.Fprintf(w, "%3d  %s  %s  (%s)\n", i+1, name, s.Title, steps)
		total += s.Steps
	}
	fmt.Fprintf(w, "%d slides, %d steps\n", d.Len(), total)
}
