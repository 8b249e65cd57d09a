package csfloat_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

func loadFixture(t *testing.T, name string) json.RawMessage {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestDecodeListings_Fixture(t *testing.T) {
	t.Parallel()

	listings, err := csfloat.DecodeListings(loadFixture(t, "listings.json"))
	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "324288155723370196", first.ID)
	assert.Equal(t, domain.ListingBuyNow, first.Type)
	assert.Equal(t, domain.Cents(2450), first.Price)
	assert.InDelta(t, 24.50, first.HumanPrice(), 1e-9)
	assert.Equal(t, time.Date(2024, 6, 13, 20, 45, 20, 884253000, time.UTC), first.CreatedAt.UTC())
	require.NotNil(t, first.MinOfferPrice)
	assert.Equal(t, domain.Cents(2205), *first.MinOfferPrice)
	require.NotNil(t, first.MaxOfferDiscount)
	assert.Equal(t, 1000, *first.MaxOfferDiscount)
	assert.Nil(t, first.AuctionDetails)

	require.NotNil(t, first.Seller)
	assert.Equal(t, "Step7750", first.Seller.Username)
	assert.Equal(t, 62, first.Seller.Statistics.TotalTrades)
	assert.Equal(t, 61, first.Seller.Statistics.TotalVerifiedTrades)
	assert.Nil(t, first.Seller.Balance)

	assert.Equal(t, domain.ReferenceStructured, first.Reference.Kind)
	require.NotNil(t, first.Reference.Structured)
	assert.Equal(t, domain.Cents(2000), first.Reference.Structured.BasePrice)
	assert.Equal(t, domain.Cents(2040), first.Reference.Structured.PredictedPrice)
	assert.Equal(t, 31, first.Reference.Structured.Quantity)

	item := first.Item
	assert.Equal(t, "AK-47 | Case Hardened (Minimal Wear)", item.MarketHashName)
	require.NotNil(t, item.FloatValue)
	assert.InDelta(t, 0.0836, *item.FloatValue, 1e-12)
	require.NotNil(t, item.PaintSeed)
	assert.Equal(t, 661, *item.PaintSeed)
	require.NotNil(t, item.ScreenshotAt)
	require.Len(t, item.Stickers, 2)
	assert.Equal(t, "Sticker | Dust II (Holo)", item.Stickers[0].Name)
	assert.Equal(t, 2, item.Stickers[1].Slot)
	assert.InDelta(t, 12.34, item.Stickers[0].NormalPrice(), 1e-9)
	assert.Zero(t, item.Stickers[1].NormalPrice())
	assert.InDelta(t, 12.34, item.TotalStickerPrice(), 1e-9)

	second := listings[1]
	assert.Equal(t, domain.ListingAuction, second.Type)
	assert.Empty(t, second.Item.Stickers)
	assert.Nil(t, second.Item.ScreenshotAt)
	assert.Zero(t, second.Item.TotalStickerPrice())
	assert.Empty(t, second.Seller.Username)
	assert.Nil(t, second.MinOfferPrice)

	assert.Equal(t, domain.ReferenceOpaque, second.Reference.Kind)
	assert.Nil(t, second.Reference.Structured)
	assert.Equal(t, map[string]any{"predicted_price": 1100.0, "quantity": 4.0}, second.Reference.Opaque)

	require.NotNil(t, second.AuctionDetails)
	assert.Equal(t, domain.Cents(1500), second.AuctionDetails.ReservePrice)
	assert.Equal(t, domain.Cents(1050), second.AuctionDetails.MinNextBid)
	require.NotNil(t, second.AuctionDetails.ExpiresAt)
}

func TestDecodeListings_Wrapped(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"data":[{"id":"1","price":1,"item":{"market_hash_name":"x"}}],"cursor":"abc"}`)

	listings, err := csfloat.DecodeListings(raw)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "1", listings[0].ID)
	assert.Equal(t, domain.ReferenceNone, listings[0].Reference.Kind)
}

func TestDecodeListings_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `<html>`},
		{name: "wrong element type", raw: `[1, 2]`},
		{name: "reference is not an object", raw: `[{"id":"1","reference":"cheap"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := csfloat.DecodeListings(json.RawMessage(tt.raw))
			require.Error(t, err)
		})
	}
}

func TestDecodeListing_ReferenceShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ref      string
		wantKind domain.ReferenceKind
	}{
		{name: "absent", ref: `null`, wantKind: domain.ReferenceNone},
		{
			name: "all keys",
			ref: `{"base_price":1,"float_factor":1,"predicted_price":1,"quantity":1,
				"last_updated":"2024-01-01T00:00:00Z"}`,
			wantKind: domain.ReferenceStructured,
		},
		{
			name: "extra keys stay structured",
			ref: `{"base_price":1,"float_factor":1,"predicted_price":1,"quantity":1,
				"last_updated":"2024-01-01T00:00:00Z","source":"steam"}`,
			wantKind: domain.ReferenceStructured,
		},
		{
			name: "null key is opaque",
			ref: `{"base_price":null,"float_factor":1,"predicted_price":1,"quantity":1,
				"last_updated":"2024-01-01T00:00:00Z"}`,
			wantKind: domain.ReferenceOpaque,
		},
		{
			name: "wrong types are opaque",
			ref: `{"base_price":"1","float_factor":1,"predicted_price":1,"quantity":1,
				"last_updated":"2024-01-01T00:00:00Z"}`,
			wantKind: domain.ReferenceOpaque,
		},
		{name: "empty object is opaque", ref: `{}`, wantKind: domain.ReferenceOpaque},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := json.RawMessage(`{"id":"1","price":100,"reference":` + tt.ref + `}`)
			l, err := csfloat.DecodeListing(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, l.Reference.Kind)
		})
	}
}

func TestDecodeSales_Fixture(t *testing.T) {
	t.Parallel()

	sales, err := csfloat.DecodeSales(loadFixture(t, "sales.json"))
	require.NoError(t, err)
	require.Len(t, sales, 2)

	assert.Equal(t, domain.Cents(98765), sales[0].Price)
	assert.InDelta(t, 987.65, sales[0].PriceNormal(), 1e-9)
	assert.Equal(t, int64(1718098200), sales[0].SoldAtUnix())
	assert.Equal(t, domain.ReferenceStructured, sales[0].Reference.Kind)
	assert.Equal(t, domain.ReferenceNone, sales[1].Reference.Kind)
	assert.Nil(t, sales[1].Item.FloatValue)
}

func TestDecodeTrades(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{
		"trades": [
			{"id":"t1","state":"pending","accepted_at":null,
			 "contract":{"id":"c1","price":1999,"state":"sold","item":{"market_hash_name":"Glock-18 | Fade (Factory New)"}}},
			{"id":"t2","state":"verified","accepted_at":"2024-06-01T10:00:00Z",
			 "contract":{"id":"c2","price":50,"state":"sold","item":{"market_hash_name":"P250 | Sand Dune (Field-Tested)"}}}
		],
		"count": 2
	}`)

	resp, err := csfloat.DecodeTrades(raw)
	require.NoError(t, err)
	require.Len(t, resp.Trades, 2)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, domain.TradePending, resp.Trades[0].State)
	assert.Nil(t, resp.Trades[0].AcceptedAt)
	assert.InDelta(t, 19.99, resp.Trades[0].Contract.NormalPrice(), 1e-9)
	assert.Equal(t, domain.TradeVerified, resp.Trades[1].State)
	require.NotNil(t, resp.Trades[1].AcceptedAt)
}
