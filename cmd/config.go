package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (file + env + defaults)",
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		// API keys stay out of terminal output.
		shown.Anthropic.Key = redact(shown.Anthropic.Key)
		shown.OpenAI.Key = redact(shown.OpenAI.Key)
		shown.OCR.MistralKey = redact(shown.OCR.MistralKey)

		out, err := yaml.Marshal(shown)
		if err != nil {
			return eris.Wrap(err, "config: marshal")
		}
		fmt.Print(string(out))
		return nil
	},
}

func redact(key string) string {
	if key == "" {
		return ""
	}
	return "<set>"
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
