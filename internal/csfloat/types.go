package csfloat

import (
	"bytes"
	"encoding/json"
	"time"
)

// Wire shapes of the API responses. Unknown fields are ignored; optional
// fields are pointers so absence survives decoding.

// timestamp decodes RFC 3339 strings and treats null or "" as absent.
type timestamp struct {
	t *time.Time
}

func (ts *timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		ts.t = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	ts.t = &t
	return nil
}

func (ts timestamp) ptr() *time.Time {
	return ts.t
}

func (ts timestamp) value() time.Time {
	if ts.t == nil {
		return time.Time{}
	}
	return *ts.t
}

type apiStickerReference struct {
	Price    *float64 `json:"price"`
	Quantity int      `json:"quantity"`
}

type apiSticker struct {
	StickerID int                  `json:"stickerId"`
	Slot      int                  `json:"slot"`
	IconURL   string               `json:"icon_url"`
	Name      string               `json:"name"`
	Wear      *float64             `json:"wear"`
	Reference *apiStickerReference `json:"reference"`
}

type apiItem struct {
	AssetID           string       `json:"asset_id"`
	DefIndex          int          `json:"def_index"`
	PaintIndex        *int         `json:"paint_index"`
	PaintSeed         *int         `json:"paint_seed"`
	FloatValue        *float64     `json:"float_value"`
	IconURL           string       `json:"icon_url"`
	DParam            string       `json:"d_param"`
	IsStatTrak        bool         `json:"is_stattrak"`
	IsSouvenir        bool         `json:"is_souvenir"`
	Rarity            int          `json:"rarity"`
	Quality           *int         `json:"quality"`
	MarketHashName    string       `json:"market_hash_name"`
	Stickers          []apiSticker `json:"stickers"`
	Tradable          int          `json:"tradable"`
	InspectLink       string       `json:"inspect_link"`
	HasScreenshot     bool         `json:"has_screenshot"`
	ScreenshotID      string       `json:"cs2_screenshot_id"`
	ScreenshotAt      timestamp    `json:"cs2_screenshot_at"`
	IsCommodity       bool         `json:"is_commodity"`
	Type              string       `json:"type"`
	RarityName        string       `json:"rarity_name"`
	TypeName          string       `json:"type_name"`
	ItemName          string       `json:"item_name"`
	WearName          string       `json:"wear_name"`
	Description       string       `json:"description"`
	Collection        string       `json:"collection"`
	SerializedInspect string       `json:"serialized_inspect"`
	GSSig             string       `json:"gs_sig"`
}

type apiUserStats struct {
	MedianTradeTime     int `json:"median_trade_time"`
	TotalAvoidedTrades  int `json:"total_avoided_trades"`
	TotalFailedTrades   int `json:"total_failed_trades"`
	TotalTrades         int `json:"total_trades"`
	TotalVerifiedTrades int `json:"total_verified_trades"`
}

type apiUser struct {
	SteamID        string       `json:"steam_id"`
	Username       string       `json:"username"`
	Avatar         string       `json:"avatar"`
	Flags          int64        `json:"flags"`
	Online         bool         `json:"online"`
	StallPublic    bool         `json:"stall_public"`
	Balance        *int64       `json:"balance"`
	PendingBalance *int64       `json:"pending_balance"`
	Statistics     apiUserStats `json:"statistics"`
}

type apiAuctionDetails struct {
	ReservePrice int64     `json:"reserve_price"`
	ExpiresAt    timestamp `json:"expires_at"`
	MinNextBid   int64     `json:"min_next_bid"`
}

type apiListing struct {
	ID               string             `json:"id"`
	CreatedAt        timestamp          `json:"created_at"`
	Type             string             `json:"type"`
	Price            int64              `json:"price"`
	State            string             `json:"state"`
	Seller           *apiUser           `json:"seller"`
	Reference        json.RawMessage    `json:"reference"`
	Item             apiItem            `json:"item"`
	IsSeller         bool               `json:"is_seller"`
	MinOfferPrice    *int64             `json:"min_offer_price"`
	MaxOfferDiscount *int               `json:"max_offer_discount"`
	IsWatchlisted    bool               `json:"is_watchlisted"`
	Watchers         int                `json:"watchers"`
	Description      string             `json:"description"`
	Private          bool               `json:"private"`
	AuctionDetails   *apiAuctionDetails `json:"auction_details"`
}

type apiItemSale struct {
	ID            string          `json:"id"`
	CreatedAt     timestamp       `json:"created_at"`
	Type          string          `json:"type"`
	Price         int64           `json:"price"`
	State         string          `json:"state"`
	Reference     json.RawMessage `json:"reference"`
	Item          apiItem         `json:"item"`
	IsSeller      bool            `json:"is_seller"`
	IsWatchlisted bool            `json:"is_watchlisted"`
	Watchers      int             `json:"watchers"`
	SoldAt        timestamp       `json:"sold_at"`
}

// apiPriceReference is decoded only after every key has been seen.
type apiPriceReference struct {
	BasePrice      int64     `json:"base_price"`
	FloatFactor    float64   `json:"float_factor"`
	PredictedPrice int64     `json:"predicted_price"`
	Quantity       int       `json:"quantity"`
	LastUpdated    time.Time `json:"last_updated"`
}

var priceReferenceKeys = []string{
	"base_price", "float_factor", "predicted_price", "quantity", "last_updated",
}

type apiBuyOrder struct {
	ID             string    `json:"id"`
	CreatedAt      timestamp `json:"created_at"`
	MarketHashName string    `json:"market_hash_name"`
	Expression     string    `json:"expression"`
	Qty            int       `json:"qty"`
	Price          int64     `json:"price"`
}

type apiMyBuyOrders struct {
	Orders []apiBuyOrder `json:"orders"`
	Count  int           `json:"count"`
}

type apiMe struct {
	User             apiUser `json:"user"`
	PendingOffers    int     `json:"pending_offers"`
	ActionableTrades int     `json:"actionable_trades"`
}

type apiContract struct {
	ID    string  `json:"id"`
	Price int64   `json:"price"`
	State string  `json:"state"`
	Item  apiItem `json:"item"`
}

type apiTrade struct {
	ID         string      `json:"id"`
	Contract   apiContract `json:"contract"`
	AcceptedAt timestamp   `json:"accepted_at"`
	State      string      `json:"state"`
}

type apiTrades struct {
	Trades []apiTrade `json:"trades"`
	Count  int        `json:"count"`
}

type apiOffer struct {
	ID         string    `json:"id"`
	ContractID string    `json:"contract_id"`
	Price      int64     `json:"price"`
	State      string    `json:"state"`
	Type       string    `json:"type"`
	BuyerID    string    `json:"buyer_id"`
	SellerID   string    `json:"seller_id"`
	CreatedAt  timestamp `json:"created_at"`
	ExpiresAt  timestamp `json:"expires_at"`
}

type apiMessage struct {
	Message string `json:"message"`
}
