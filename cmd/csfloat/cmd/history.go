package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
	"github.com/donaldgifford/csfloat-tracker/internal/watch"
)

func historyCmd() *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "history <market-hash-name>...",
		Short: "Show recent sales for one or more items",
		Long: "Fetches the recent sale history of each item in turn. All fetches share\n" +
			"one quota breaker: once --threshold responses have reported a nearly\n" +
			"exhausted rate limit, the remaining items are skipped.",
		Example: `  csfloat history "AK-47 | Redline (Field-Tested)"
  csfloat history "AWP | Asiimov (Field-Tested)" "M4A1-S | Printstream (Minimal Wear)" --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			breaker := csfloat.NewBreaker(threshold)
			results := make(map[string]any, len(args))

			for _, name := range args {
				sales, err := c.GetSaleHistory(cmd.Context(), name, breaker)
				if err != nil {
					return err
				}
				if jsonOutput() {
					results[name] = sales
					continue
				}

				s := watch.Summarize(name, sales)
				fmt.Printf("%s: %d sales, median $%s\n", name, s.Sales, s.MedianPrice)
				if err := printSalesTable(os.Stdout, sales); err != nil {
					return err
				}
				fmt.Println()
			}

			if jsonOutput() {
				return outputJSON(results)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 10, "low-quota responses tolerated before stopping")
	return cmd
}
