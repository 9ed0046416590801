package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fuyou/internal/calculation"
	"github.com/rgehrsitz/fuyou/internal/config"
	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/output"
	"github.com/rgehrsitz/fuyou/internal/thresholds"
)

func thresholdsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Inspect and administer the threshold registry",
	}
	cmd.AddCommand(
		thresholdsListCmd(a),
		thresholdsHealthCmd(a),
		thresholdsSetCmd(a),
		thresholdsSeedCmd(a),
		thresholdsActivateCmd(a),
		thresholdsInvalidateCmd(a),
		thresholdsPreviewCmd(a),
		thresholdsYearsCmd(a),
	)
	return cmd
}

func yearFlag(a *app, cmd *cobra.Command) int {
	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		return a.now().Year()
	}
	return year
}

func thresholdsListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the active thresholds of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			year := yearFlag(a, cmd)
			registry := a.thresholdRegistry(ctx)

			m := registry.ActiveThresholds(ctx, year)
			if kind, _ := cmd.Flags().GetString("kind"); kind != "" {
				k := domain.ThresholdKind(kind)
				if !k.Valid() {
					return fmt.Errorf("invalid kind %q: expected %q or %q", kind, domain.KindTax, domain.KindSocial)
				}
				m = make(domain.ThresholdMap)
				for _, t := range registry.ThresholdsByKind(ctx, k, year) {
					m[t.Key] = t
				}
			}
			format, _ := cmd.Flags().GetString("format")
			return output.WriteThresholds(cmd.OutOrStdout(), year, m, format)
		},
	}
	cmd.Flags().Int("year", 0, "year (default: current year)")
	cmd.Flags().String("kind", "", "only list one kind (tax, social)")
	cmd.Flags().StringP("format", "f", "console", "output format (console, json, yaml)")
	return cmd
}

func thresholdsHealthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Report which tier serves thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			registry := a.thresholdRegistry(ctx)
			if resolve, _ := cmd.Flags().GetBool("resolve"); resolve {
				registry.ActiveThresholds(ctx, yearFlag(a, cmd))
			}
			format, _ := cmd.Flags().GetString("format")
			return output.WriteHealth(cmd.OutOrStdout(), registry.Health(), format)
		},
	}
	cmd.Flags().Int("year", 0, "year to resolve (default: current year)")
	cmd.Flags().Bool("resolve", true, "resolve the year before reporting")
	cmd.Flags().StringP("format", "f", "console", "output format (console, json, yaml)")
	return cmd
}

func thresholdsSetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY",
		Short: "Create or update one threshold for a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key := domain.ThresholdKey(args[0])
			year := yearFlag(a, cmd)

			t := domain.Threshold{Key: key}
			if base, ok := thresholds.FallbackThreshold(key); ok {
				t = base
			}
			yen, _ := cmd.Flags().GetInt64("yen")
			t.Yen = domain.Yen(yen)
			if kind, _ := cmd.Flags().GetString("kind"); kind != "" {
				t.Kind = domain.ThresholdKind(kind)
			}
			if label, _ := cmd.Flags().GetString("label"); label != "" {
				t.Label = label
			}
			if desc, _ := cmd.Flags().GetString("description"); desc != "" {
				t.Description = desc
			}

			registry, _, err := a.adminRegistry(ctx)
			if err != nil {
				return err
			}
			if err := registry.UpsertThreshold(ctx, year, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s for %d set to %s\n", key, year, calculation.FormatMan(t.Yen))
			return nil
		},
	}
	cmd.Flags().Int("year", 0, "year (default: current year)")
	cmd.Flags().Int64("yen", 0, "threshold value in yen")
	cmd.Flags().String("kind", "", "tax or social (default: built-in kind for known keys)")
	cmd.Flags().String("label", "", "display label (default: built-in label for known keys)")
	cmd.Flags().String("description", "", "description")
	_ = cmd.MarkFlagRequired("yen")
	return cmd
}

func thresholdsSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Load a YAML seed file of thresholds for one year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			seed, err := config.NewInputParser().LoadSeedFile(args[0])
			if err != nil {
				return err
			}
			registry, st, err := a.adminRegistry(ctx)
			if err != nil {
				return err
			}
			n, err := st.SeedThresholds(ctx, seed.Year, seed.ThresholdMap())
			if err != nil {
				return err
			}
			registry.InvalidateCache()
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d thresholds for %d\n", n, seed.Year)
			return nil
		},
	}
}

func thresholdsActivateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activate KEY...",
		Short: "Make exactly the given keys active for a year",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			year := yearFlag(a, cmd)
			keys := make([]domain.ThresholdKey, 0, len(args))
			for _, arg := range args {
				keys = append(keys, domain.ThresholdKey(arg))
			}
			registry, _, err := a.adminRegistry(ctx)
			if err != nil {
				return err
			}
			n, err := registry.ActivateYear(ctx, year, keys)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "activated %d thresholds for %d\n", n, year)
			return nil
		},
	}
	cmd.Flags().Int("year", 0, "year (default: current year)")
	return cmd
}

func thresholdsInvalidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate",
		Short: "Drop cached resolutions so the next lookup refetches",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.thresholdRegistry(cmd.Context()).InvalidateCache()
			fmt.Fprintln(cmd.OutOrStdout(), "threshold cache invalidated")
			return nil
		},
	}
}

func thresholdsPreviewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show how a year's thresholds differ from the baseline year",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			year, _ := cmd.Flags().GetInt("year")
			if year == 0 {
				year = a.now().Year() + 1
			}
			p := calculation.PreviewYear(ctx, a.thresholdRegistry(ctx), year, a.now())
			format, _ := cmd.Flags().GetString("format")
			return output.WritePreview(cmd.OutOrStdout(), p, format)
		},
	}
	cmd.Flags().Int("year", 0, "year to preview (default: next year)")
	cmd.Flags().StringP("format", "f", "console", "output format (console, json, yaml)")
	return cmd
}

func thresholdsYearsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the years that have stored thresholds",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			years, err := st.ListYears(cmd.Context())
			if err != nil {
				return err
			}
			for _, y := range years {
				fmt.Fprintln(cmd.OutOrStdout(), y)
			}
			return nil
		},
	}
}
