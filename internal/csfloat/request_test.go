package csfloat_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

func TestNewListingsRequest_Defaults(t *testing.T) {
	t.Parallel()

	req, err := csfloat.NewListingsRequest(csfloat.ListingsFilter{})
	require.NoError(t, err)

	assert.Equal(t, csfloat.OpListListings, req.Operation)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/listings", req.Path)
	assert.Equal(t, "0", req.Query.Get("page"))
	assert.Equal(t, "50", req.Query.Get("limit"))
	assert.Equal(t, "best_deal", req.Query.Get("sort_by"))
	assert.Equal(t, "0", req.Query.Get("category"))
	assert.Equal(t, "buy_now", req.Query.Get("type"))

	for _, key := range []string{
		"min_price", "max_price", "def_index", "min_float", "max_float",
		"rarity", "paint_seed", "paint_index", "user_id", "collection",
		"market_hash_name",
	} {
		assert.False(t, req.Query.Has(key), "unexpected %s", key)
	}
}

func TestNewListingsRequest_Filters(t *testing.T) {
	t.Parallel()

	req, err := csfloat.NewListingsRequest(csfloat.ListingsFilter{
		MinPrice:       csfloat.Ptr(domain.Cents(100)),
		MaxPrice:       csfloat.Ptr(domain.Cents(25000)),
		Page:           2,
		Limit:          20,
		SortBy:         csfloat.SortLowestFloat,
		Category:       csfloat.CategoryStatTrak,
		DefIndex:       []int{7, 9, 16},
		MinFloat:       csfloat.Ptr(0.0),
		MaxFloat:       csfloat.Ptr(0.07),
		Rarity:         csfloat.Ptr(6),
		PaintSeed:      csfloat.Ptr(661),
		PaintIndex:     csfloat.Ptr(44),
		UserID:         csfloat.Ptr("76561198000000000"),
		Collection:     csfloat.Ptr("set_community_1"),
		MarketHashName: csfloat.Ptr("AK-47 | Case Hardened (Factory New)"),
		Type:           domain.ListingAuction,
	})
	require.NoError(t, err)

	q := req.Query
	assert.Equal(t, "100", q.Get("min_price"))
	assert.Equal(t, "25000", q.Get("max_price"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "lowest_float", q.Get("sort_by"))
	assert.Equal(t, "2", q.Get("category"))
	assert.Equal(t, "7,9,16", q.Get("def_index"))
	assert.Equal(t, "0", q.Get("min_float"))
	assert.Equal(t, "0.07", q.Get("max_float"))
	assert.Equal(t, "6", q.Get("rarity"))
	assert.Equal(t, "661", q.Get("paint_seed"))
	assert.Equal(t, "44", q.Get("paint_index"))
	assert.Equal(t, "76561198000000000", q.Get("user_id"))
	assert.Equal(t, "set_community_1", q.Get("collection"))
	assert.Equal(t, "AK-47 | Case Hardened (Factory New)", q.Get("market_hash_name"))
	assert.Equal(t, "auction", q.Get("type"))

	assert.Contains(t, req.PathWithQuery(), "market_hash_name=AK-47+%7C+Case+Hardened+%28Factory+New%29")
	assert.Contains(t, req.PathWithQuery(), "def_index=7,9,16")
	assert.NotContains(t, req.PathWithQuery(), "%2C")
}

func TestNewListingsRequest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		filter    csfloat.ListingsFilter
		wantParam string
	}{
		{name: "category too high", filter: csfloat.ListingsFilter{Category: 4}, wantParam: "category"},
		{name: "category negative", filter: csfloat.ListingsFilter{Category: -1}, wantParam: "category"},
		{name: "unknown sort", filter: csfloat.ListingsFilter{SortBy: "cheapest"}, wantParam: "sort_by"},
		{name: "unknown type", filter: csfloat.ListingsFilter{Type: "raffle"}, wantParam: "type"},
		{name: "limit above max", filter: csfloat.ListingsFilter{Limit: 51}, wantParam: "limit"},
		{name: "negative limit", filter: csfloat.ListingsFilter{Limit: -5}, wantParam: "limit"},
		{name: "negative page", filter: csfloat.ListingsFilter{Page: -1}, wantParam: "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := csfloat.NewListingsRequest(tt.filter)
			require.ErrorIs(t, err, csfloat.ErrInvalidParameter)

			var paramErr *csfloat.InvalidParameterError
			require.ErrorAs(t, err, &paramErr)
			assert.Equal(t, tt.wantParam, paramErr.Param)
		})
	}
}

func TestNewListingsRequest_AllSortKeys(t *testing.T) {
	t.Parallel()

	for _, s := range []csfloat.SortBy{
		csfloat.SortLowestPrice, csfloat.SortHighestPrice, csfloat.SortMostRecent,
		csfloat.SortExpiresSoon, csfloat.SortLowestFloat, csfloat.SortHighestFloat,
		csfloat.SortBestDeal, csfloat.SortHighestDiscount, csfloat.SortFloatRank,
		csfloat.SortNumBids,
	} {
		_, err := csfloat.NewListingsRequest(csfloat.ListingsFilter{SortBy: s})
		assert.NoError(t, err, "sort %s", s)
	}
}

func TestResourceRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        csfloat.Request
		wantOp     string
		wantMethod string
		wantPath   string
	}{
		{
			name:       "listing",
			req:        csfloat.NewListingRequest("324288155723370196"),
			wantOp:     csfloat.OpGetListing,
			wantMethod: http.MethodGet,
			wantPath:   "/listings/324288155723370196",
		},
		{
			name:       "similar listings",
			req:        csfloat.NewSimilarListingsRequest("42"),
			wantOp:     csfloat.OpSimilarListings,
			wantMethod: http.MethodGet,
			wantPath:   "/listings/42/similar",
		},
		{
			name:       "listing buy orders default limit",
			req:        csfloat.NewListingBuyOrdersRequest("42", 0),
			wantOp:     csfloat.OpListingBuyOrders,
			wantMethod: http.MethodGet,
			wantPath:   "/listings/42/buy-orders?limit=10",
		},
		{
			name:       "similar buy orders",
			req:        csfloat.NewSimilarBuyOrdersRequest("AWP | Asiimov (Field-Tested)", 5),
			wantOp:     csfloat.OpSimilarBuyOrders,
			wantMethod: http.MethodPost,
			wantPath:   "/buy-orders/similar-orders?limit=5",
		},
		{
			name:       "delete buy order",
			req:        csfloat.NewDeleteBuyOrderRequest("order-1"),
			wantOp:     csfloat.OpDeleteBuyOrder,
			wantMethod: http.MethodDelete,
			wantPath:   "/buy-orders/order-1",
		},
		{
			name:       "my buy orders",
			req:        csfloat.NewMyBuyOrdersRequest(0, 0),
			wantOp:     csfloat.OpMyBuyOrders,
			wantMethod: http.MethodGet,
			wantPath:   "/me/buy-orders?limit=100&order=desc&page=0",
		},
		{
			name:       "me",
			req:        csfloat.NewMeRequest(),
			wantOp:     csfloat.OpMe,
			wantMethod: http.MethodGet,
			wantPath:   "/me",
		},
		{
			name:       "pending trades",
			req:        csfloat.NewPendingTradesRequest(1, 0),
			wantOp:     csfloat.OpPendingTrades,
			wantMethod: http.MethodGet,
			wantPath:   "/me/trades?limit=500&page=1&state=pending",
		},
		{
			name:       "exchange rates",
			req:        csfloat.NewExchangeRatesRequest(),
			wantOp:     csfloat.OpExchangeRates,
			wantMethod: http.MethodGet,
			wantPath:   "/meta/exchange-rates",
		},
		{
			name:       "location",
			req:        csfloat.NewLocationRequest(),
			wantOp:     csfloat.OpLocation,
			wantMethod: http.MethodGet,
			wantPath:   "/meta/location",
		},
		{
			name:       "sale history escapes name",
			req:        csfloat.NewSaleHistoryRequest("AK-47 | Redline (Field-Tested)"),
			wantOp:     csfloat.OpSaleHistory,
			wantMethod: http.MethodGet,
			wantPath:   "/history/AK-47%20%7C%20Redline%20%28Field-Tested%29/sales",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantOp, tt.req.Operation)
			assert.Equal(t, tt.wantMethod, tt.req.Method)
			assert.Equal(t, tt.wantPath, tt.req.PathWithQuery())
			assert.NoError(t, tt.req.Validate())
		})
	}
}

func TestNewCreateBuyOrderRequest(t *testing.T) {
	t.Parallel()

	req, err := csfloat.NewCreateBuyOrderRequest("AWP | Asiimov (Field-Tested)", 4200, 0)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/buy-orders", req.Path)
	assert.JSONEq(t,
		`{"market_hash_name":"AWP | Asiimov (Field-Tested)","max_price":4200,"quantity":1}`,
		mustJSON(t, req.Body),
	)

	_, err = csfloat.NewCreateBuyOrderRequest("x", 1, -1)
	require.ErrorIs(t, err, csfloat.ErrInvalidParameter)
}

func TestNewMakeOfferRequest(t *testing.T) {
	t.Parallel()

	req := csfloat.NewMakeOfferRequest("777", 1550)
	assert.Equal(t, "/offers", req.Path)
	assert.JSONEq(t,
		`{"contract_id":"777","price":1550,"cancel_previous_offer":false}`,
		mustJSON(t, req.Body),
	)
}

func TestNewCreateListingRequest(t *testing.T) {
	t.Parallel()

	t.Run("buy now omits auction fields", func(t *testing.T) {
		t.Parallel()

		req, err := csfloat.NewCreateListingRequest(csfloat.CreateListingParams{
			AssetID: "29001",
			Price:   12345,
		})
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"asset_id":"29001","price":12345,"type":"buy_now","description":"","private":false}`,
			mustJSON(t, req.Body),
		)
	})

	t.Run("auction carries reserve and duration", func(t *testing.T) {
		t.Parallel()

		req, err := csfloat.NewCreateListingRequest(csfloat.CreateListingParams{
			AssetID:      "29001",
			Price:        500,
			Type:         domain.ListingAuction,
			ReservePrice: csfloat.Ptr(domain.Cents(900)),
			DurationDays: csfloat.Ptr(7),
			Description:  "clean",
			Private:      true,
		})
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"asset_id":"29001","price":500,"type":"auction","description":"clean",
			  "private":true,"reserve_price":900,"duration_days":7}`,
			mustJSON(t, req.Body),
		)
	})

	t.Run("max offer discount sent when set", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			discount int
			want     string
		}{
			{name: "fifteen percent", discount: 15, want: `15`},
			{name: "zero is still sent", discount: 0, want: `0`},
		}

		for _, tt := range tests {
			req, err := csfloat.NewCreateListingRequest(csfloat.CreateListingParams{
				AssetID:          "29001",
				Price:            12345,
				MaxOfferDiscount: csfloat.Ptr(tt.discount),
			})
			require.NoError(t, err, tt.name)
			assert.JSONEq(t,
				`{"asset_id":"29001","price":12345,"type":"buy_now","description":"",
				  "private":false,"max_offer_discount":`+tt.want+`}`,
				mustJSON(t, req.Body),
				tt.name,
			)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()

		_, err := csfloat.NewCreateListingRequest(csfloat.CreateListingParams{Type: "raffle"})
		require.ErrorIs(t, err, csfloat.ErrInvalidParameter)
	})
}

func TestRequestValidate_Method(t *testing.T) {
	t.Parallel()

	err := csfloat.Request{Method: http.MethodPut, Path: "/me"}.Validate()
	require.ErrorIs(t, err, csfloat.ErrInvalidParameter)
	assert.Equal(t, `unknown method parameter "PUT"`, err.Error())
}
