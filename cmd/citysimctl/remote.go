package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"citysim/internal/domain/entity"
	"citysim/internal/usecase"

	"github.com/spf13/cobra"
)

const requestTimeout = 2 * time.Minute

func (o *rootOptions) client() *apiClient {
	return newAPIClient(o.apiURL, o.token)
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), requestTimeout)
}

func newTreasuryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "treasury",
		Short: "Show platform revenue by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			var stats entity.TreasuryStats
			if err := opts.client().do(ctx, http.MethodGet, "/admin/treasury", nil, &stats); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, stats)
			}
			printTreasury(cmd, stats)

			return nil
		},
	}
}

func printTreasury(cmd *cobra.Command, stats entity.TreasuryStats) {
	out := cmd.OutOrStdout()
	printTitle(out, "Treasury")
	tw := newTable(out)
	fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tCOUNT")
	for _, e := range stats.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", e.Category, e.Amount, e.Count)
	}
	_ = tw.Flush()
	kv(out, "revenue", stats.Revenue.String()+" TON")
}

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the treasury solvency report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			var health entity.TreasuryHealth
			if err := opts.client().do(ctx, http.MethodGet, "/admin/treasury/health", nil, &health); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, health)
			}
			printTreasury(cmd, health.Stats)
			kv(out, "pending withdrawals", fmt.Sprintf("%s TON (%d)", health.PendingWithdrawals, health.PendingWithdrawalCount))
			kv(out, "player balances", health.TotalPlayerBalances.String()+" TON")
			kv(out, "days active", health.DaysActive)
			kv(out, "avg daily revenue", health.AverageDailyRevenue.String()+" TON")

			return nil
		},
	}
}

func newWithdrawalsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdrawals",
		Short: "Review player withdrawals",
	}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List withdrawals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			path := "/admin/withdrawals"
			if status != "" {
				path += "?status=" + url.QueryEscape(status)
			}
			var txs []*entity.Transaction
			if err := opts.client().do(ctx, http.MethodGet, path, nil, &txs); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, txs)
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tPLAYER\tAMOUNT\tNET\tADDRESS\tSTATUS\tCREATED")
			for _, tx := range txs {
				player := ""
				if tx.FromPlayerID != nil {
					player = tx.FromPlayerID.String()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					tx.ID, player, tx.Amount, tx.Net, tx.ToAddress, tx.Status, tx.CreatedAt.Format(time.RFC3339))
			}

			return tw.Flush()
		},
	}
	list.Flags().StringVar(&status, "status", string(entity.TxStatusPending), "filter by status (empty for all)")

	cmd.AddCommand(list, withdrawalAction(opts, "approve"), withdrawalAction(opts, "reject"))

	return cmd
}

func withdrawalAction(opts *rootOptions, action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " ID",
		Short: action + " a pending withdrawal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			var tx entity.Transaction
			path := "/admin/withdrawals/" + url.PathEscape(args[0]) + "/" + action
			if err := opts.client().do(ctx, http.MethodPost, path, nil, &tx); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), tx)
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("withdrawal %s is %s", tx.ID, tx.Status))

			return nil
		},
	}
}

func newDepositCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Manage on-chain deposits",
	}

	credit := &cobra.Command{
		Use:   "credit TX_HASH PLAYER_ID AMOUNT",
		Short: "Credit an observed deposit once",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			var tx entity.Transaction
			body := map[string]string{"tx_hash": args[0], "player_id": args[1], "amount": args[2]}
			if err := opts.client().do(ctx, http.MethodPost, "/admin/deposits/credit", body, &tx); err != nil {
				return err
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), tx)
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("credited %s TON (tx %s)", tx.Amount, tx.ID))

			return nil
		},
	}
	cmd.AddCommand(credit)

	return cmd
}

func newSweepCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run an automatic collection pass now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			var report usecase.SweepReport
			if err := opts.client().do(ctx, http.MethodPost, "/admin/sweep", nil, &report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, report)
			}
			printTitle(out, "Sweep")
			kv(out, "scanned", report.Scanned)
			kv(out, "collected", report.Collected)
			kv(out, "skipped", report.Skipped)
			kv(out, "failed", report.Failed)
			kv(out, "total net", report.TotalNet.String()+" TON")
			kv(out, "total tax", report.TotalTax.String()+" TON")
			kv(out, "took", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))

			return nil
		},
	}
}
