package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

func listingsCmd() *cobra.Command {
	listingsRoot := &cobra.Command{
		Use:   "listings",
		Short: "Search and manage listings",
	}

	listingsRoot.AddCommand(
		listingsListCmd(),
		listingsGetCmd(),
		listingsSimilarCmd(),
		listingsBuyOrdersCmd(),
		listingsCreateCmd(),
	)

	return listingsRoot
}

func listingsListCmd() *cobra.Command {
	var (
		f                  csfloat.ListingsFilter
		sortBy, listType   string
		category           int
		minPrice, maxPrice string
		minFloat, maxFloat float64
		rarity, paintSeed  int
		paintIndex         int
		userID, collection string
		marketHashName     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search active listings",
		Long: "Search active listings. Filters that are not set are not sent.\n" +
			"Prices are given in major units, e.g. --max-price 12.50.",
		Example: `  csfloat listings list --sort lowest_price --limit 10
  csfloat listings list --name "AK-47 | Redline (Field-Tested)" --max-float 0.2
  csfloat listings list --def-index 7,9 --category 2 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			f.SortBy = csfloat.SortBy(sortBy)
			f.Category = csfloat.Category(category)
			f.Type = domain.ListingType(listType)

			var err error
			if f.MinPrice, err = centsFlag(flags.Changed("min-price"), minPrice); err != nil {
				return err
			}
			if f.MaxPrice, err = centsFlag(flags.Changed("max-price"), maxPrice); err != nil {
				return err
			}
			if flags.Changed("min-float") {
				f.MinFloat = csfloat.Ptr(minFloat)
			}
			if flags.Changed("max-float") {
				f.MaxFloat = csfloat.Ptr(maxFloat)
			}
			if flags.Changed("rarity") {
				f.Rarity = csfloat.Ptr(rarity)
			}
			if flags.Changed("paint-seed") {
				f.PaintSeed = csfloat.Ptr(paintSeed)
			}
			if flags.Changed("paint-index") {
				f.PaintIndex = csfloat.Ptr(paintIndex)
			}
			if flags.Changed("user-id") {
				f.UserID = csfloat.Ptr(userID)
			}
			if flags.Changed("collection") {
				f.Collection = csfloat.Ptr(collection)
			}
			if flags.Changed("name") {
				f.MarketHashName = csfloat.Ptr(marketHashName)
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			listings, err := c.GetListings(cmd.Context(), f)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(listings)
			}
			if len(listings) == 0 {
				fmt.Println("No listings found.")
				return nil
			}
			return printListingsTable(os.Stdout, listings)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.Page, "page", 0, "result page")
	flags.IntVar(&f.Limit, "limit", 0, "results per page (max 50, default 50)")
	flags.StringVar(&sortBy, "sort", "", "sort key (lowest_price, highest_price, most_recent, "+
		"expires_soon, lowest_float, highest_float, best_deal, highest_discount, float_rank, num_bids)")
	flags.IntVar(&category, "category", 0, "0 any, 1 normal, 2 stattrak, 3 souvenir")
	flags.IntSliceVar(&f.DefIndex, "def-index", nil, "weapon definition indexes")
	flags.StringVar(&minPrice, "min-price", "", "minimum price")
	flags.StringVar(&maxPrice, "max-price", "", "maximum price")
	flags.Float64Var(&minFloat, "min-float", 0, "minimum float value")
	flags.Float64Var(&maxFloat, "max-float", 0, "maximum float value")
	flags.IntVar(&rarity, "rarity", 0, "rarity")
	flags.IntVar(&paintSeed, "paint-seed", 0, "paint seed")
	flags.IntVar(&paintIndex, "paint-index", 0, "paint index")
	flags.StringVar(&userID, "user-id", "", "seller Steam ID")
	flags.StringVar(&collection, "collection", "", "collection")
	flags.StringVar(&marketHashName, "name", "", "market hash name")
	flags.StringVar(&listType, "type", "", "listing type (buy_now, auction)")

	return cmd
}

func listingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <listing-id>",
		Short: "Show listing details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			l, err := c.GetListing(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(l)
			}
			return printListingDetail(os.Stdout, l)
		},
	}
}

func listingsSimilarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "similar <listing-id>",
		Short: "List listings similar to a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			listings, err := c.GetSimilarListings(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(listings)
			}
			return printListingsTable(os.Stdout, listings)
		},
	}
}

func listingsBuyOrdersCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "buy-orders <listing-id>",
		Short: "List the buy orders matching a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			orders, err := c.GetListingBuyOrders(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(orders)
			}
			return printBuyOrdersTable(os.Stdout, orders)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum orders to return")
	return cmd
}

func listingsCreateCmd() *cobra.Command {
	var (
		p                csfloat.CreateListingParams
		price, reserve   string
		listType         string
		maxOfferDiscount int
		durationDays     int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "List an inventory item for sale",
		Example: `  csfloat listings create --asset-id 30245114307 --price 42.19
  csfloat listings create --asset-id 30245114307 --price 40 --type auction \
    --reserve-price 35 --duration-days 7`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if p.AssetID == "" || price == "" {
				return fmt.Errorf("--asset-id and --price are required")
			}

			flags := cmd.Flags()
			cents, err := domain.ParseCents(price)
			if err != nil {
				return err
			}
			p.Price = cents
			p.Type = domain.ListingType(listType)
			if p.ReservePrice, err = centsFlag(flags.Changed("reserve-price"), reserve); err != nil {
				return err
			}
			if flags.Changed("max-offer-discount") {
				p.MaxOfferDiscount = csfloat.Ptr(maxOfferDiscount)
			}
			if flags.Changed("duration-days") {
				p.DurationDays = csfloat.Ptr(durationDays)
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			l, err := c.CreateListing(cmd.Context(), p)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(l)
			}
			return printListingDetail(os.Stdout, l)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&p.AssetID, "asset-id", "", "inventory asset ID (required)")
	flags.StringVar(&price, "price", "", "price (required)")
	flags.StringVar(&listType, "type", "", "listing type (buy_now, auction)")
	flags.IntVar(&maxOfferDiscount, "max-offer-discount", 0, "maximum offer discount in basis points")
	flags.StringVar(&reserve, "reserve-price", "", "auction reserve price")
	flags.IntVar(&durationDays, "duration-days", 0, "auction duration in days")
	flags.StringVar(&p.Description, "description", "", "listing description")
	flags.BoolVar(&p.Private, "private", false, "hide the listing from search")

	return cmd
}

// centsFlag parses an optional price flag; an unset flag yields nil.
func centsFlag(set bool, v string) (*domain.Cents, error) {
	if !set {
		return nil, nil
	}
	c, err := domain.ParseCents(v)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
