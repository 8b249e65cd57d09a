package cmd

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/donaldgifford/csfloat-tracker/internal/watch"
	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printListingsTable(w io.Writer, listings []domain.Listing) error {
	tw := newTabWriter(w)
	tw.writef("ID\tITEM\tPRICE\tFLOAT\tTYPE\tWATCHERS\n")
	for i := range listings {
		l := &listings[i]
		tw.writef("%s\t%s\t$%s\t%s\t%s\t%d\n",
			l.ID,
			truncate(l.Item.MarketHashName, 48),
			l.Price,
			floatValue(l.Item.FloatValue),
			l.Type,
			l.Watchers,
		)
	}
	return tw.finish()
}

func printListingDetail(w io.Writer, l *domain.Listing) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", l.ID)
	tw.writef("Item:\t%s\n", l.Item.MarketHashName)
	tw.writef("Price:\t$%s\n", l.Price)
	tw.writef("Type:\t%s\n", l.Type)
	tw.writef("State:\t%s\n", l.State)
	tw.writef("Float:\t%s\n", floatValue(l.Item.FloatValue))
	if l.Item.PaintSeed != nil {
		tw.writef("Paint Seed:\t%d\n", *l.Item.PaintSeed)
	}
	for _, s := range l.Item.Stickers {
		tw.writef("Sticker %d:\t%s (wear %.2f)\n", s.Slot, s.Name, s.Wear)
	}
	if r := l.Reference.Structured; r != nil {
		tw.writef("Predicted:\t$%s (base $%s)\n", r.PredictedPrice, r.BasePrice)
	}
	if l.MinOfferPrice != nil {
		tw.writef("Min Offer:\t$%s\n", *l.MinOfferPrice)
	}
	if a := l.AuctionDetails; a != nil {
		tw.writef("Reserve:\t$%s\n", a.ReservePrice)
		tw.writef("Next Bid:\t$%s\n", a.MinNextBid)
		if a.ExpiresAt != nil {
			tw.writef("Expires:\t%s\n", a.ExpiresAt.Format(timeLayout))
		}
	}
	if l.Seller != nil {
		tw.writef("Seller:\t%s (%d trades)\n", sellerName(l.Seller), l.Seller.Statistics.TotalTrades)
	}
	tw.writef("Created:\t%s\n", l.CreatedAt.Format(timeLayout))
	return tw.finish()
}

func printBuyOrdersTable(w io.Writer, orders []domain.BuyOrder) error {
	tw := newTabWriter(w)
	tw.writef("ID\tTARGET\tPRICE\tQTY\n")
	for i := range orders {
		o := &orders[i]
		target := o.MarketHashName
		if target == "" {
			target = o.Expression
		}
		id := o.ID
		if id == "" {
			id = "-"
		}
		tw.writef("%s\t%s\t$%s\t%d\n", id, truncate(target, 48), o.Price, o.Qty)
	}
	return tw.finish()
}

func printSimilarBuyOrdersTable(w io.Writer, orders []domain.SimilarBuyOrder) error {
	tw := newTabWriter(w)
	tw.writef("ID\tITEM\tPRICE\tQTY\tCREATED\n")
	for i := range orders {
		o := &orders[i]
		tw.writef("%s\t%s\t$%s\t%d\t%s\n",
			o.ID,
			truncate(o.MarketHashName, 48),
			o.Price,
			o.Qty,
			o.CreatedAt.Format(timeLayout),
		)
	}
	return tw.finish()
}

func printSalesTable(w io.Writer, sales []domain.ItemSale) error {
	tw := newTabWriter(w)
	tw.writef("ID\tPRICE\tFLOAT\tSOLD\tREFERENCE\n")
	for i := range sales {
		s := &sales[i]
		tw.writef("%s\t$%s\t%s\t%s\t%s\n",
			s.ID,
			s.Price,
			floatValue(s.Item.FloatValue),
			s.SoldAt.Format(timeLayout),
			s.Reference.Kind,
		)
	}
	return tw.finish()
}

func printTradesTable(w io.Writer, trades []domain.Trade) error {
	tw := newTabWriter(w)
	tw.writef("ID\tITEM\tPRICE\tSTATE\tACCEPTED\n")
	for i := range trades {
		t := &trades[i]
		tw.writef("%s\t%s\t$%s\t%s\t%s\n",
			t.ID,
			truncate(t.Contract.Item.MarketHashName, 48),
			t.Contract.Price,
			t.State,
			optionalTime(t.AcceptedAt),
		)
	}
	return tw.finish()
}

func printMe(w io.Writer, me *domain.Me) error {
	tw := newTabWriter(w)
	u := &me.User
	tw.writef("Steam ID:\t%s\n", u.SteamID)
	tw.writef("Username:\t%s\n", sellerName(u))
	if u.Balance != nil {
		tw.writef("Balance:\t$%s\n", *u.Balance)
	}
	if u.PendingBalance != nil {
		tw.writef("Pending Balance:\t$%s\n", *u.PendingBalance)
	}
	tw.writef("Trades:\t%d verified / %d total\n",
		u.Statistics.TotalVerifiedTrades, u.Statistics.TotalTrades)
	tw.writef("Pending Offers:\t%d\n", me.PendingOffers)
	tw.writef("Actionable Trades:\t%d\n", me.ActionableTrades)
	return tw.finish()
}

func printOffer(w io.Writer, o *domain.Offer) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", o.ID)
	tw.writef("Listing:\t%s\n", o.ContractID)
	tw.writef("Price:\t$%s\n", o.Price)
	if o.State != "" {
		tw.writef("State:\t%s\n", o.State)
	}
	tw.writef("Expires:\t%s\n", optionalTime(o.ExpiresAt))
	return tw.finish()
}

func printRates(w io.Writer, rates domain.ExchangeRates) error {
	tw := newTabWriter(w)
	tw.writef("CURRENCY\tRATE\n")
	for _, code := range sortedKeys(rates) {
		tw.writef("%s\t%.4f\n", code, rates[code])
	}
	return tw.finish()
}

func printLocation(w io.Writer, l *domain.Location) error {
	tw := newTabWriter(w)
	tw.writef("Country:\t%s\n", l.Country)
	tw.writef("Currency:\t%s\n", l.Currency)
	for _, k := range sortedKeys(l.Extra) {
		tw.writef("%s:\t%v\n", k, l.Extra[k])
	}
	return tw.finish()
}

func printSummaries(w io.Writer, summaries []watch.Summary) error {
	tw := newTabWriter(w)
	tw.writef("ITEM\tSALES\tLATEST\tCHEAPEST\tMEDIAN\tPOLLED\n")
	for i := range summaries {
		s := &summaries[i]
		latest, cheapest := "-", "-"
		if s.Latest != nil {
			latest = "$" + s.Latest.Price.String()
		}
		if s.Cheapest != nil {
			cheapest = "$" + s.Cheapest.Price.String()
		}
		tw.writef("%s\t%d\t%s\t%s\t$%s\t%s\n",
			truncate(s.MarketHashName, 48),
			s.Sales,
			latest,
			cheapest,
			s.MedianPrice,
			s.PolledAt.Format(timeLayout),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func floatValue(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%.6f", *f)
}

func optionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(timeLayout)
}

func sellerName(u *domain.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.SteamID
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}
