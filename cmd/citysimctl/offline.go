package main

import (
	"fmt"
	"strconv"

	"citysim/config"
	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	"citysim/internal/infra/auth"
	"citysim/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// loadConfig reads the service configuration. Offline commands fall back to
// the built-in defaults when no config file is found.
func loadConfig() *config.Config {
	cfg, err := config.New()
	if err != nil {
		return &config.Config{}
	}

	return cfg
}

func loadEngine() (*economy.Engine, error) {
	return impl.NewEconomyEngine(loadConfig())
}

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quote X Y",
		Short: "Price a tile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(err, "x")
			}
			y, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrap(err, "y")
			}

			engine, err := loadEngine()
			if err != nil {
				return err
			}
			price, zone, err := engine.PriceAndZone(x, y)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, map[string]any{"x": x, "y": y, "zone": zone, "price": price})
			}
			printTitle(out, fmt.Sprintf("Tile (%d, %d)", x, y))
			kv(out, "zone", zone)
			kv(out, "price", price.String()+" TON")

			return nil
		},
	}
}

func newIncomeTableCmd(opts *rootOptions) *cobra.Command {
	var typeKey string

	cmd := &cobra.Command{
		Use:   "income-table",
		Short: "Project daily income per type, level, zone and connection count",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine()
			if err != nil {
				return err
			}

			rows := engine.IncomeTable()
			if typeKey != "" {
				rows = engine.TypeIncomeTable(typeKey)
				if rows == nil {
					return errors.Errorf("unknown business type %q", typeKey)
				}
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, rows)
			}

			tw := newTable(out)
			fmt.Fprintln(tw, "TYPE\tLEVEL\tZONE\tCONN\tGROSS\tNET/DAY\tMONTHLY\tROI DAYS")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
					r.Type, r.Level, r.Zone, r.Connections, r.Gross, r.Net, r.Monthly, r.ROIDays)
			}

			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&typeKey, "type", "", "restrict to one business type")

	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		player string
		admin  bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token with the configured secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID := uuid.New()
			if player != "" {
				id, err := uuid.Parse(player)
				if err != nil {
					return errors.Wrap(err, "player")
				}
				playerID = id
			}

			tokens, err := auth.NewJWTService(loadConfig())
			if err != nil {
				return err
			}

			roles := []string{entity.RolePlayer.String()}
			if admin {
				roles = append(roles, entity.RoleAdmin.String())
			}
			access, _, err := tokens.GenerateTokens(playerID, roles)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, access)
			printWarn(cmd.ErrOrStderr(), "player "+playerID.String())

			return nil
		},
	}
	cmd.Flags().StringVar(&player, "player", "", "player id (random when empty)")
	cmd.Flags().BoolVar(&admin, "admin", false, "include the admin role")

	return cmd
}
