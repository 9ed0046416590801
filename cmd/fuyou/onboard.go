package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/fuyou/internal/config"
	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/onboarding"
	"github.com/rgehrsitz/fuyou/internal/tui"
)

func onboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Answer the intake questions and write a status input file",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := a.dateFlag(cmd, "at")
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(
				tui.NewModel(at),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			).Run()
			if err != nil {
				return fmt.Errorf("error running onboarding: %w", err)
			}

			m, ok := final.(tui.Model)
			if !ok || !m.Done() {
				fmt.Fprintln(cmd.ErrOrStderr(), "onboarding cancelled")
				return nil
			}

			name, _ := cmd.Flags().GetString("name")
			path, _ := cmd.Flags().GetString("out")
			w := cmd.OutOrStdout()
			if path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", path, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			if err := writeStatusInput(w, m.Answers(), name, at); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), onboarding.New(at).CompletionMessage(m.Answers()))
			return nil
		},
	}
	cmd.Flags().String("name", "", "name stored in the profile")
	cmd.Flags().String("out", "", "write the status input file here (default: stdout)")
	cmd.Flags().String("at", "", "evaluation date YYYY-MM-DD (default: today)")
	return cmd
}

// writeStatusInput writes finished answers as a file "fuyou status" accepts
func writeStatusInput(w io.Writer, answers domain.OnboardingAnswers, name string, at time.Time) error {
	in := config.StatusInput{
		Year:    at.Year(),
		Profile: answers.Profile(name),
		Income:  []domain.MonthlyIncome{},
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(in); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return enc.Close()
}
