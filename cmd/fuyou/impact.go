package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fuyou/internal/calculation"
	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/output"
)

func impactCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Explain what moving a wall means for an income",
		Long: `Describe the effect of a threshold change. Pass --old and --new in yen,
or --key with --from-year and --to-year to compare registered values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			income, _ := cmd.Flags().GetInt64("income")
			oldYen, _ := cmd.Flags().GetInt64("old")
			newYen, _ := cmd.Flags().GetInt64("new")

			if key, _ := cmd.Flags().GetString("key"); key != "" {
				registry := a.thresholdRegistry(ctx)
				from, _ := cmd.Flags().GetInt("from-year")
				to, _ := cmd.Flags().GetInt("to-year")
				if to == 0 {
					to = a.now().Year()
				}
				if from == 0 {
					from = to - 1
				}
				prev, ok := registry.ThresholdByKey(ctx, domain.ThresholdKey(key), from)
				if !ok {
					return fmt.Errorf("threshold %s is not registered for %d", key, from)
				}
				next, ok := registry.ThresholdByKey(ctx, domain.ThresholdKey(key), to)
				if !ok {
					return fmt.Errorf("threshold %s is not registered for %d", key, to)
				}
				oldYen, newYen = int64(prev.Yen), int64(next.Yen)
			} else if !cmd.Flags().Changed("old") || !cmd.Flags().Changed("new") {
				return fmt.Errorf("either --key or both --old and --new are required")
			}

			view := output.ImpactView{
				CurrentIncome: domain.Yen(income),
				OldThreshold:  domain.Yen(oldYen),
				NewThreshold:  domain.Yen(newYen),
				Impact:        calculation.AnalyzeThresholdImpact(domain.Yen(income), domain.Yen(oldYen), domain.Yen(newYen)),
			}
			format, _ := cmd.Flags().GetString("format")
			return output.WriteImpact(cmd.OutOrStdout(), view, format)
		},
	}

	cmd.Flags().Int64("income", 0, "current annual income in yen")
	cmd.Flags().Int64("old", 0, "previous wall in yen")
	cmd.Flags().Int64("new", 0, "new wall in yen")
	cmd.Flags().String("key", "", "threshold key to compare across years")
	cmd.Flags().Int("from-year", 0, "baseline year for --key (default: to-year - 1)")
	cmd.Flags().Int("to-year", 0, "target year for --key (default: current year)")
	cmd.Flags().StringP("format", "f", "console", "output format (console, json, yaml)")
	return cmd
}
