package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

func buyOrdersCmd() *cobra.Command {
	ordersRoot := &cobra.Command{
		Use:   "buy-orders",
		Short: "Manage buy orders",
		Long: "Buy orders are standing offers to purchase any item matching a market\n" +
			"hash name, up to a maximum price.",
	}

	ordersRoot.AddCommand(
		buyOrdersSimilarCmd(),
		buyOrdersCreateCmd(),
		buyOrdersDeleteCmd(),
		buyOrdersMineCmd(),
	)

	return ordersRoot
}

func buyOrdersSimilarCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "similar <market-hash-name>",
		Short:   "List buy orders for a market hash name",
		Example: `  csfloat buy-orders similar "AWP | Asiimov (Field-Tested)" --limit 5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			orders, err := c.GetSimilarBuyOrders(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(orders)
			}
			if len(orders) == 0 {
				fmt.Println("No buy orders found.")
				return nil
			}
			return printSimilarBuyOrdersTable(os.Stdout, orders)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum orders to return")
	return cmd
}

func buyOrdersCreateCmd() *cobra.Command {
	var (
		maxPrice string
		qty      int
	)

	cmd := &cobra.Command{
		Use:     "create <market-hash-name>",
		Short:   "Place a buy order",
		Example: `  csfloat buy-orders create "AK-47 | Redline (Field-Tested)" --max-price 12.50 --qty 2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxPrice == "" {
				return fmt.Errorf("--max-price is required")
			}
			price, err := domain.ParseCents(maxPrice)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			order, err := c.CreateBuyOrder(cmd.Context(), args[0], price, qty)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(order)
			}
			return printSimilarBuyOrdersTable(os.Stdout, []domain.SimilarBuyOrder{*order})
		},
	}

	cmd.Flags().StringVar(&maxPrice, "max-price", "", "maximum price per item (required)")
	cmd.Flags().IntVar(&qty, "qty", 1, "number of items to buy")
	return cmd
}

func buyOrdersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <order-id>",
		Short: "Remove a buy order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.DeleteBuyOrder(cmd.Context(), args[0]); err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(map[string]string{"id": args[0], "status": "deleted"})
			}
			fmt.Printf("Buy order %s deleted.\n", args[0])
			return nil
		},
	}
}

func buyOrdersMineCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List your own buy orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			resp, err := c.GetMyBuyOrders(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			fmt.Printf("%d buy orders\n", resp.Count)
			return printBuyOrdersTable(os.Stdout, resp.Orders)
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "result page")
	cmd.Flags().IntVar(&limit, "limit", 100, "results per page")
	return cmd
}
