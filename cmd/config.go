package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/messi-ai/internal/config"
)

const redacted = "REDACTED"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with credentials redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(redactConfig(*cfg)); err != nil {
			return eris.Wrap(err, "encode config")
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// redactConfig returns a copy of c with credentials masked.
func redactConfig(c config.Config) config.Config {
	if c.Gemini.Key != "" {
		c.Gemini.Key = redacted
	}
	if c.Anthropic.Key != "" {
		c.Anthropic.Key = redacted
	}
	return c
}
