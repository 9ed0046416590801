package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fuyou/internal/calculation"
	"github.com/rgehrsitz/fuyou/internal/config"
	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/output"
)

func statusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [input-file]",
		Short: "Show income against every dependency wall",
		Long: `Compute the dependency status for a year. The input file (YAML) carries
the profile and monthly income; --from-db adds the income recorded with
"fuyou income add". Thresholds come from the database, then the
configured fallback, then the built-in values.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			in := &config.StatusInput{Year: a.now().Year()}
			if len(args) == 1 {
				var err error
				in, err = config.NewInputParser().LoadFromFile(args[0])
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("year") {
				in.Year, _ = cmd.Flags().GetInt("year")
			}

			if fromDB, _ := cmd.Flags().GetBool("from-db"); fromDB {
				st, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				recorded, err := st.MonthlyIncome(ctx, in.Year)
				if err != nil {
					return err
				}
				in.Income = mergeIncome(recorded, in.Income)
			}

			asOf := a.now()
			if in.AsOf != nil {
				asOf = *in.AsOf
			}
			if cmd.Flags().Changed("as-of") {
				var err error
				if asOf, err = a.dateFlag(cmd, "as-of"); err != nil {
					return err
				}
			}

			registry := a.thresholdRegistry(ctx)
			status := calculation.Aggregate(calculation.AggregateInput{
				Profile:    in.Profile,
				History:    in.Income,
				Year:       in.Year,
				Thresholds: registry.ActiveThresholds(ctx, in.Year),
				AsOf:       asOf,
			})
			a.logger.DebugContext(ctx, "status computed",
				"year", status.Year,
				"primary", status.PrimaryThreshold,
				"overall", status.OverallAlert,
				"source", registry.Health().Source)

			format, _ := cmd.Flags().GetString("format")
			if save, _ := cmd.Flags().GetBool("save"); save {
				f := output.GetFormatterByName(format)
				if f == nil {
					return fmt.Errorf("unsupported format: %s (available: %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
				}
				filename, err := output.WriteFormatted(f, &status, reportExtension(f.Name()))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", filename)
				return nil
			}
			return output.GenerateReport(cmd.OutOrStdout(), &status, format)
		},
	}

	cmd.Flags().Int("year", 0, "year to evaluate (default: input file year or current year)")
	cmd.Flags().String("as-of", "", "evaluation date YYYY-MM-DD (default: today)")
	cmd.Flags().Bool("from-db", false, "include monthly income recorded in the database")
	cmd.Flags().StringP("format", "f", "console", "output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().Bool("save", false, "write the report to a timestamped file instead of stdout")
	return cmd
}

// mergeIncome overlays file entries on recorded months, keyed by month
func mergeIncome(recorded, file []domain.MonthlyIncome) []domain.MonthlyIncome {
	byMonth := make(map[int]domain.MonthlyIncome, len(recorded)+len(file))
	for _, m := range recorded {
		byMonth[m.Month] = m
	}
	for _, m := range file {
		byMonth[m.Month] = m
	}
	out := make([]domain.MonthlyIncome, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func reportExtension(formatter string) string {
	switch formatter {
	case "csv", "detailed-csv":
		return "csv"
	case "json":
		return "json"
	case "yaml":
		return "yaml"
	case "html":
		return "html"
	default:
		return "txt"
	}
}
