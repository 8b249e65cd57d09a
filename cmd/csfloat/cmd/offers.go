package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

func offersCmd() *cobra.Command {
	offersRoot := &cobra.Command{
		Use:   "offers",
		Short: "Make offers on listings",
	}
	offersRoot.AddCommand(offersMakeCmd())
	return offersRoot
}

func offersMakeCmd() *cobra.Command {
	var price string

	cmd := &cobra.Command{
		Use:     "make <listing-id>",
		Short:   "Offer a price below the asking price",
		Example: `  csfloat offers make 324288155723370196 --price 38.00`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if price == "" {
				return fmt.Errorf("--price is required")
			}
			cents, err := domain.ParseCents(price)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			offer, err := c.MakeOffer(cmd.Context(), args[0], cents)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(offer)
			}
			return printOffer(os.Stdout, offer)
		},
	}

	cmd.Flags().StringVar(&price, "price", "", "offer price (required)")
	return cmd
}
