package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/investment-tracker/internal/goals"
	"github.com/iwvelando/investment-tracker/pkg/constants"
	"github.com/iwvelando/investment-tracker/pkg/output"
	"github.com/iwvelando/investment-tracker/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagTarget       float64
	flagCurrent      float64
	flagContribution float64
	flagReturn       float64
	flagGoalType     string
	flagOutputFormat string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project how long a savings goal takes to reach",
	RunE:  runProject,
}

func init() {
	projectCmd.Flags().Float64Var(&flagTarget, "target", 0, "target amount")
	projectCmd.Flags().Float64Var(&flagCurrent, "current", 0, "current savings")
	projectCmd.Flags().Float64Var(&flagContribution, "contribution", 0, "monthly contribution")
	projectCmd.Flags().Float64Var(&flagReturn, "return", constants.DefaultExpectedReturn, "expected annual return in percent")
	projectCmd.Flags().StringVar(&flagGoalType, "type", string(goals.TypeMid), "goal type (short, mid, long)")
	projectCmd.Flags().StringVar(&flagOutputFormat, "output-format", "", "type of output override: pretty, csv, json")
	_ = projectCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	// CLI override takes precedence over config
	format := conf.Output.Format
	if flagOutputFormat != "" {
		format = flagOutputFormat
	}
	if format == "" {
		format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}

	in := goals.Input{
		TargetAmount:        flagTarget,
		CurrentSavings:      flagCurrent,
		MonthlyContribution: flagContribution,
		ExpectedReturn:      flagReturn,
		GoalType:            flagGoalType,
	}
	if err := goals.ValidateInput(in); err != nil {
		return err
	}

	result := goals.Project(logger, in)
	if err := result.Err(); err != nil {
		logger.Warn(err.Error(),
			zap.String("op", "main.runProject"),
			zap.Float64("required_contribution", result.RequiredContribution),
		)
	}

	return writeProjection(cmd.OutOrStdout(), format, result)
}

func writeProjection(w io.Writer, format string, result goals.Result) error {
	switch format {
	case constants.OutputFormatCSV:
		output.CsvTrajectory(w, result)
	case constants.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode projection: %w", err)
		}
	default:
		output.PrettyTrajectory(w, result)
	}
	return nil
}
