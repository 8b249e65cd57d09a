package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

func meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			me, err := c.GetMe(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(me)
			}
			return printMe(os.Stdout, me)
		},
	}
}

// accountSummary is the combined output of the account command.
type accountSummary struct {
	Me        *domain.Me                  `json:"me"`
	BuyOrders *domain.MyBuyOrdersResponse `json:"buy_orders"`
}

func accountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the account together with its open buy orders",
		Long: "Fetches the account and its buy orders concurrently. Both requests\n" +
			"still pass through the client's request pacing.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			var out accountSummary
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				me, err := c.GetMe(ctx)
				out.Me = me
				return err
			})
			g.Go(func() error {
				orders, err := c.GetMyBuyOrders(ctx, 0, 0)
				out.BuyOrders = orders
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(out)
			}
			if err := printMe(os.Stdout, out.Me); err != nil {
				return err
			}
			fmt.Printf("\n%d buy orders\n", out.BuyOrders.Count)
			return printBuyOrdersTable(os.Stdout, out.BuyOrders.Orders)
		},
	}
}

func tradesCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "trades",
		Short: "List pending trades",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			resp, err := c.GetPendingTrades(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if len(resp.Trades) == 0 {
				fmt.Println("No pending trades.")
				return nil
			}
			return printTradesTable(os.Stdout, resp.Trades)
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "result page")
	cmd.Flags().IntVar(&limit, "limit", 500, "results per page")
	return cmd
}

func metaCmd() *cobra.Command {
	metaRoot := &cobra.Command{
		Use:   "meta",
		Short: "Marketplace metadata",
	}

	metaRoot.AddCommand(&cobra.Command{
		Use:   "rates",
		Short: "Show currency exchange rates against USD",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			rates, err := c.GetExchangeRates(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(rates)
			}
			return printRates(os.Stdout, rates)
		},
	})

	metaRoot.AddCommand(&cobra.Command{
		Use:   "location",
		Short: "Show the location the marketplace infers for you",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			loc, err := c.GetLocation(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(loc)
			}
			return printLocation(os.Stdout, loc)
		},
	})

	return metaRoot
}
