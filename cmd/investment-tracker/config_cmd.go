package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration with secrets redacted",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out, err := conf.Export()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "# source: %s\n", flagConfig)
	_, _ = w.Write(out)
	for _, warning := range conf.ValidateConfiguration() {
		_, _ = fmt.Fprintf(w, "# warning: %s\n", warning)
	}
	return nil
}
