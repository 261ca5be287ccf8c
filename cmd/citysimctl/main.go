// Command citysimctl is the operator client of the city simulation. Pricing
// and projection commands run offline against the economy engine; the
// treasury, withdrawal, deposit and sweep commands call a running API.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	apiURL string
	token  string
	json   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError("error: " + err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "citysimctl",
		Short:        "Operate the city simulation",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("CITYSIM_API", "http://localhost:8080"), "API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("CITYSIM_TOKEN"), "admin access token")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print raw JSON")

	root.AddCommand(
		newQuoteCmd(opts),
		newIncomeTableCmd(opts),
		newTokenCmd(),
		newTreasuryCmd(opts),
		newHealthCmd(opts),
		newWithdrawalsCmd(opts),
		newDepositCmd(opts),
		newSweepCmd(opts),
	)

	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
