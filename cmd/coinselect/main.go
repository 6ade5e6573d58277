package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vulpemventures/go-coinselect/internal/config"
	"github.com/vulpemventures/go-coinselect/internal/core/domain"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	rootCmd = &cobra.Command{
		Use:   "coinselect",
		Short: "CLI for the coin selection suite",
		Long: "This CLI lets you run the coin selection strategies over a " +
			"list of utxos encoded in listunspent JSON format",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
			domain.MaxFeeRate = config.GetFloat(config.MaxFeeRateKey)
		},
		Version: formatVersion(),
	}
)

func init() {
	rootCmd.AddCommand(selectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func formatVersion() string {
	return fmt.Sprintf(
		"\nVersion: %s\nCommit: %s\nDate: %s", version, commit, date,
	)
}
