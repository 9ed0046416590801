package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fuyou/internal/calculation"
	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/output"
)

func incomeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Record monthly income in the database",
	}
	cmd.AddCommand(incomeAddCmd(a), incomeListCmd(a), incomeDeleteCmd(a))
	return cmd
}

func incomeAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record (or replace) one month of income",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			month, _ := cmd.Flags().GetInt("month")
			amount, _ := cmd.Flags().GetInt64("income")
			estimated, _ := cmd.Flags().GetBool("estimated")
			method, _ := cmd.Flags().GetString("method")
			year := yearFlag(a, cmd)

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			in := domain.MonthlyIncome{
				Month:       month,
				Income:      domain.Yen(amount),
				IsEstimated: estimated,
				InputMethod: domain.InputMethod(method),
			}
			if err := st.SaveMonthlyIncome(ctx, year, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d-%02d: %s円\n", year, month, calculation.FormatYen(in.Income))
			return nil
		},
	}
	cmd.Flags().Int("year", 0, "year (default: current year)")
	cmd.Flags().Int("month", 0, "month 1-12")
	cmd.Flags().Int64("income", 0, "income in yen")
	cmd.Flags().Bool("estimated", false, "the figure is an estimate")
	cmd.Flags().String("method", string(domain.InputManual), "input method (manual, bank_api, estimated)")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("income")
	return cmd
}

func incomeListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the recorded months of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			year := yearFlag(a, cmd)
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			months, err := st.MonthlyIncome(ctx, year)
			if err != nil {
				return err
			}

			progress := calculation.GenerateMonthlyProgress(months)
			format, _ := cmd.Flags().GetString("format")
			if format != "console" {
				return output.Encode(cmd.OutOrStdout(), progress, format)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "月\t収入\t累計\t方法\t")
			for _, p := range progress {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", p.Month, calculation.FormatYen(p.Income), calculation.FormatYen(p.CumulativeIncome), p.InputMethod)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int("year", 0, "year (default: current year)")
	cmd.Flags().StringP("format", "f", "console", "output format (console, json, yaml)")
	return cmd
}

func incomeDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove one recorded month",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			month, _ := cmd.Flags().GetInt("month")
			year := yearFlag(a, cmd)
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if err := st.DeleteMonthlyIncome(ctx, year, month); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d-%02d\n", year, month)
			return nil
		},
	}
	cmd.Flags().Int("year", 0, "year (default: current year)")
	cmd.Flags().Int("month", 0, "month 1-12")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}
