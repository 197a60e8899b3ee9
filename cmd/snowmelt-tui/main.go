package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"snowmelt/internal/game"
	"snowmelt/internal/melt"
	"snowmelt/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		wordsPath string
		tick      time.Duration
	)
	root := &cobra.Command{
		Use:           "snowmelt-tui",
		Short:         "Guess the word before the snowman melts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			bank, err := loadBank(wordsPath)
			if err != nil {
				return err
			}
			sess, err := game.NewSession(bank)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(tui.New(sess, tick), tea.WithAltScreen()).Run()
			return err
		},
	}
	root.Flags().StringVar(&wordsPath, "words", "", "Word bank file (.json, .yaml or .yml); built-in bank when empty")
	root.Flags().DurationVar(&tick, "tick", melt.DefaultInterval, "Delay between melt animation frames")
	return root
}

func loadBank(path string) (game.WordBank, error) {
	if path == "" {
		return game.DefaultWordBank(), nil
	}
	return game.LoadWordBank(path)
}
