// Package domain defines the marketplace records returned by the CSFloat client.
//
// Records are built once from a decoded API response and never mutated
// afterwards. Every price is carried in minor currency units (Cents); the
// major-unit views are derived on read.
package domain

import (
	"time"
)

// ListingType is the sale format of a listing.
type ListingType string

// Listing type constants.
const (
	ListingBuyNow  ListingType = "buy_now"
	ListingAuction ListingType = "auction"
)

// TradeState is the lifecycle state of a trade. The set is open; the API has
// been seen returning at least the values below.
type TradeState string

// Known trade states.
const (
	TradeVerified TradeState = "verified"
	TradeFailed   TradeState = "failed"
	TradeCanceled TradeState = "canceled"
	TradePending  TradeState = "pending"
)

// Listing is an active sale offer on the marketplace.
type Listing struct {
	ID               string         `json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	Type             ListingType    `json:"type"`
	Price            Cents          `json:"price"`
	State            string         `json:"state"`
	Seller           *User          `json:"seller,omitempty"`
	Reference        SaleReference  `json:"reference"`
	Item             Item           `json:"item"`
	IsSeller         bool           `json:"is_seller"`
	MinOfferPrice    *Cents         `json:"min_offer_price,omitempty"`
	MaxOfferDiscount *int           `json:"max_offer_discount,omitempty"`
	IsWatchlisted    bool           `json:"is_watchlisted"`
	Watchers         int            `json:"watchers"`
	Description      string         `json:"description,omitempty"`
	Private          bool           `json:"private"`
	AuctionDetails   *AuctionDetail `json:"auction_details,omitempty"`
}

// HumanPrice returns the listing price in major units.
func (l *Listing) HumanPrice() float64 {
	return l.Price.Major()
}

// AuctionDetail holds the bidding state of an auction listing.
type AuctionDetail struct {
	ReservePrice Cents      `json:"reserve_price"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	MinNextBid   Cents      `json:"min_next_bid"`
}

// User is a marketplace account as embedded in listings and /me.
type User struct {
	SteamID        string    `json:"steam_id"`
	Username       string    `json:"username,omitempty"`
	Avatar         string    `json:"avatar,omitempty"`
	Flags          int64     `json:"flags"`
	Online         bool      `json:"online"`
	StallPublic    bool      `json:"stall_public"`
	Balance        *Cents    `json:"balance,omitempty"`
	PendingBalance *Cents    `json:"pending_balance,omitempty"`
	Statistics     UserStats `json:"statistics"`
}

// UserStats mirrors the public trade statistics of a user.
type UserStats struct {
	MedianTradeTime     int `json:"median_trade_time"`
	TotalAvoidedTrades  int `json:"total_avoided_trades"`
	TotalFailedTrades   int `json:"total_failed_trades"`
	TotalTrades         int `json:"total_trades"`
	TotalVerifiedTrades int `json:"total_verified_trades"`
}

// Me is the authenticated account identity.
type Me struct {
	User             User `json:"user"`
	PendingOffers    int  `json:"pending_offers"`
	ActionableTrades int  `json:"actionable_trades"`
}

// Sticker is a decorative attachment on an item. Price is the reference price
// in minor units when the API supplies one.
type Sticker struct {
	StickerID int     `json:"sticker_id"`
	Slot      int     `json:"slot"`
	Name      string  `json:"name"`
	IconURL   string  `json:"icon_url,omitempty"`
	Price     *Cents  `json:"price,omitempty"`
	Wear      float64 `json:"wear"`
}

// NormalPrice returns the reference price in major units, or 0 when the
// sticker carries no reference.
func (s *Sticker) NormalPrice() float64 {
	if s.Price == nil {
		return 0
	}
	return s.Price.Major()
}

// Item is a single weapon or skin instance.
type Item struct {
	AssetID           string     `json:"asset_id"`
	DefIndex          int        `json:"def_index"`
	PaintIndex        *int       `json:"paint_index,omitempty"`
	PaintSeed         *int       `json:"paint_seed,omitempty"`
	FloatValue        *float64   `json:"float_value,omitempty"`
	IconURL           string     `json:"icon_url,omitempty"`
	DParam            string     `json:"d_param,omitempty"`
	IsStatTrak        bool       `json:"is_stattrak"`
	IsSouvenir        bool       `json:"is_souvenir"`
	Rarity            int        `json:"rarity"`
	Quality           *int       `json:"quality,omitempty"`
	MarketHashName    string     `json:"market_hash_name"`
	Stickers          []Sticker  `json:"stickers,omitempty"`
	Tradable          int        `json:"tradable"`
	InspectLink       string     `json:"inspect_link,omitempty"`
	HasScreenshot     bool       `json:"has_screenshot"`
	ScreenshotID      string     `json:"cs2_screenshot_id,omitempty"`
	ScreenshotAt      *time.Time `json:"cs2_screenshot_at,omitempty"`
	IsCommodity       bool       `json:"is_commodity"`
	Type              string     `json:"type,omitempty"`
	RarityName        string     `json:"rarity_name,omitempty"`
	TypeName          string     `json:"type_name,omitempty"`
	ItemName          string     `json:"item_name,omitempty"`
	WearName          string     `json:"wear_name,omitempty"`
	Description       string     `json:"description,omitempty"`
	Collection        string     `json:"collection,omitempty"`
	SerializedInspect string     `json:"serialized_inspect,omitempty"`
	GSSig             string     `json:"gs_sig,omitempty"`
}

// TotalStickerPrice sums the normalized price of every sticker.
func (i *Item) TotalStickerPrice() float64 {
	var total Cents
	for j := range i.Stickers {
		if p := i.Stickers[j].Price; p != nil {
			total += *p
		}
	}
	return total.Major()
}

// ItemSale is a completed sale from the price history endpoint.
type ItemSale struct {
	ID            string        `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	Type          ListingType   `json:"type"`
	Price         Cents         `json:"price"`
	State         string        `json:"state"`
	Reference     SaleReference `json:"reference"`
	Item          Item          `json:"item"`
	IsSeller      bool          `json:"is_seller"`
	IsWatchlisted bool          `json:"is_watchlisted"`
	Watchers      int           `json:"watchers"`
	SoldAt        time.Time     `json:"sold_at"`
}

// SoldAtUnix returns the sale time as Unix seconds.
func (s *ItemSale) SoldAtUnix() int64 {
	return s.SoldAt.Unix()
}

// PriceNormal returns the sale price in major units.
func (s *ItemSale) PriceNormal() float64 {
	return s.Price.Major()
}

// BuyOrder is a standing purchase offer.
type BuyOrder struct {
	ID             string     `json:"id,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	MarketHashName string     `json:"market_hash_name,omitempty"`
	Expression     string     `json:"expression,omitempty"`
	Qty            int        `json:"qty"`
	Price          Cents      `json:"price"`
}

// HumanPrice returns the order price in major units.
func (o *BuyOrder) HumanPrice() float64 {
	return o.Price.Major()
}

// SimilarBuyOrder is a buy order returned for a market hash name lookup or
// by buy order creation. Unlike BuyOrder every field is always populated.
type SimilarBuyOrder struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	MarketHashName string    `json:"market_hash_name"`
	Qty            int       `json:"qty"`
	Price          Cents     `json:"price"`
}

// HumanPrice returns the order price in major units.
func (o *SimilarBuyOrder) HumanPrice() float64 {
	return o.Price.Major()
}

// MyBuyOrdersResponse is one page of the caller's own buy orders.
type MyBuyOrdersResponse struct {
	Orders []BuyOrder `json:"orders"`
	Count  int        `json:"count"`
}

// Contract is the listing a trade was executed against.
type Contract struct {
	ID    string `json:"id"`
	Price Cents  `json:"price"`
	State string `json:"state"`
	Item  Item   `json:"item"`
}

// NormalPrice returns the contract price in major units.
func (c *Contract) NormalPrice() float64 {
	return c.Price.Major()
}

// Trade wraps a contract with trade-level state.
type Trade struct {
	ID         string     `json:"id"`
	Contract   Contract   `json:"contract"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	State      TradeState `json:"state"`
}

// TradesResponse is one page of the caller's trades.
type TradesResponse struct {
	Trades []Trade `json:"trades"`
	Count  int     `json:"count"`
}

// Offer is a price offer made against a listing.
type Offer struct {
	ID         string     `json:"id"`
	ContractID string     `json:"contract_id"`
	Price      Cents      `json:"price"`
	State      string     `json:"state,omitempty"`
	Type       string     `json:"type,omitempty"`
	BuyerID    string     `json:"buyer_id,omitempty"`
	SellerID   string     `json:"seller_id,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// ExchangeRates maps lowercase currency codes to their rate against USD.
type ExchangeRates map[string]float64

// Location is the account location inferred by the marketplace. Fields
// the client does not model are kept in Extra.
type Location struct {
	Currency string         `json:"currency,omitempty"`
	Country  string         `json:"country,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}
