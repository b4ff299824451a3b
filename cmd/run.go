package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runInput  string
	runOutput string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one campaign over the configured lead list",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if runInput != "" {
			cfg.Leads.Path = runInput
		}
		if runOutput != "" {
			cfg.Leads.OutputPath = runOutput
		}

		env, err := initCampaign(ctx, "run")
		if err != nil {
			return err
		}
		defer env.Close()

		summary, err := env.Pipeline.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "campaign run")
		}

		zap.L().Info("campaign complete",
			zap.String("output", cfg.Leads.OutputPath),
			zap.Int("total", summary.Total),
			zap.Int("sent", summary.Sent),
		)

		// Print summary JSON to stdout
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "lead list path or URL (default from config)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "enriched CSV path (default from config)")
	rootCmd.AddCommand(runCmd)
}
