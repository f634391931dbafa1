package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the context that would be placed in the prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("context"); err != nil {
			return err
		}

		agg := initAggregator()
		for _, src := range agg.Sources() {
			zap.L().Debug("context source", zap.String("url", src.URL), zap.Bool("recognized", src.Recognized))
		}

		_, err := fmt.Fprintln(cmd.OutOrStdout(), agg.Aggregate(cmd.Context()))
		return err
	},
}

func init() {
	rootCmd.AddCommand(contextCmd)
}
