package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/eligibility"
	"github.com/rgehrsitz/fuyou/internal/output"
)

func eligibilityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eligibility",
		Short: "Decide which wall applies to a person",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dobRaw, _ := cmd.Flags().GetString("birth-date")
			dob, err := parseDate(dobRaw)
			if err != nil {
				return err
			}
			at, err := a.dateFlag(cmd, "at")
			if err != nil {
				return err
			}
			insurance, _ := cmd.Flags().GetString("insurance")
			status := domain.InsuranceStatus(insurance)
			if !status.Valid() {
				return fmt.Errorf("invalid insurance status %q: expected %q or %q", insurance, domain.InsuranceParent, domain.InsuranceSelf)
			}
			student, _ := cmd.Flags().GetBool("student")

			params := eligibility.Params{
				BirthDate:       dob,
				Student:         student,
				InsuranceStatus: status,
				EvaluationDate:  at,
			}
			if raw, _ := cmd.Flags().GetString("future-self-insurance"); raw != "" {
				d, err := parseDate(raw)
				if err != nil {
					return err
				}
				params.FutureSelfInsuranceDate = &d
			}

			walls := eligibility.WallsFromThresholds(a.thresholdRegistry(ctx).ActiveThresholds(ctx, at.Year()))
			view := output.EligibilityView{Result: eligibility.Decide(params, walls)}
			if cmd.Flags().Changed("income") {
				income, _ := cmd.Flags().GetInt64("income")
				b := eligibility.GetBreakdown(domain.Yen(income), view.Result, at)
				view.Breakdown = &b
			}

			format, _ := cmd.Flags().GetString("format")
			return output.WriteEligibility(cmd.OutOrStdout(), view, format)
		},
	}

	cmd.Flags().String("birth-date", "", "date of birth YYYY-MM-DD")
	cmd.Flags().Bool("student", false, "currently a student")
	cmd.Flags().String("insurance", string(domain.InsuranceParent), "health insurance status (parent, self)")
	cmd.Flags().String("future-self-insurance", "", "date the person joins social insurance themselves YYYY-MM-DD")
	cmd.Flags().String("at", "", "evaluation date YYYY-MM-DD (default: today)")
	cmd.Flags().Int64("income", 0, "income so far this year in yen; adds a breakdown")
	cmd.Flags().StringP("format", "f", "console", "output format (console, json, yaml)")
	_ = cmd.MarkFlagRequired("birth-date")
	return cmd
}
