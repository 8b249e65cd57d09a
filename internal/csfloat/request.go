package csfloat

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

const (
	defaultListingsLimit    = 50
	maxListingsLimit        = 50
	defaultBuyOrdersLimit   = 10
	defaultMyBuyOrdersLimit = 100
	defaultTradesLimit      = 500
)

// Operation names, used for logging and metrics labels.
const (
	OpListListings     = "list_listings"
	OpGetListing       = "get_listing"
	OpSimilarListings  = "similar_listings"
	OpListingBuyOrders = "listing_buy_orders"
	OpSimilarBuyOrders = "similar_buy_orders"
	OpCreateListing    = "create_listing"
	OpCreateBuyOrder   = "create_buy_order"
	OpMakeOffer        = "make_offer"
	OpDeleteBuyOrder   = "delete_buy_order"
	OpMyBuyOrders      = "my_buy_orders"
	OpMe               = "me"
	OpPendingTrades    = "pending_trades"
	OpExchangeRates    = "exchange_rates"
	OpLocation         = "location"
	OpSaleHistory      = "sale_history"
)

var supportedMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete}

// SortBy orders listing search results.
type SortBy string

// Sort keys accepted by the listings endpoint.
const (
	SortLowestPrice     SortBy = "lowest_price"
	SortHighestPrice    SortBy = "highest_price"
	SortMostRecent      SortBy = "most_recent"
	SortExpiresSoon     SortBy = "expires_soon"
	SortLowestFloat     SortBy = "lowest_float"
	SortHighestFloat    SortBy = "highest_float"
	SortBestDeal        SortBy = "best_deal"
	SortHighestDiscount SortBy = "highest_discount"
	SortFloatRank       SortBy = "float_rank"
	SortNumBids         SortBy = "num_bids"
)

var validSortBy = []SortBy{
	SortLowestPrice, SortHighestPrice, SortMostRecent, SortExpiresSoon,
	SortLowestFloat, SortHighestFloat, SortBestDeal, SortHighestDiscount,
	SortFloatRank, SortNumBids,
}

// Category filters listings by item quality class.
type Category int

// Listing categories.
const (
	CategoryAny Category = iota
	CategoryNormal
	CategoryStatTrak
	CategorySouvenir
)

// Request is a fully built API call: method, path relative to the API root,
// query string and optional JSON body.
type Request struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	Body      any
}

// Validate rejects methods the API client does not support.
func (r Request) Validate() error {
	if !slices.Contains(supportedMethods, r.Method) {
		return &InvalidParameterError{Param: "method", Value: r.Method}
	}
	return nil
}

// PathWithQuery returns the path with its encoded query string appended.
// Commas stay literal so list filters such as def_index read 7,9,16.
func (r Request) PathWithQuery() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + strings.ReplaceAll(r.Query.Encode(), "%2C", ",")
}

// Ptr returns a pointer to v. It is a convenience for optional filter fields.
func Ptr[T any](v T) *T {
	return &v
}

// ListingsFilter holds the query parameters for a listing search. Nil
// pointer fields and an empty DefIndex are omitted from the query.
type ListingsFilter struct {
	MinPrice       *domain.Cents
	MaxPrice       *domain.Cents
	Page           int
	Limit          int // default 50, max 50
	SortBy         SortBy
	Category       Category
	DefIndex       []int
	MinFloat       *float64
	MaxFloat       *float64
	Rarity         *int
	PaintSeed      *int
	PaintIndex     *int
	UserID         *string
	Collection     *string
	MarketHashName *string
	Type           domain.ListingType
}

func validateCategory(c Category) error {
	if c < CategoryAny || c > CategorySouvenir {
		return &InvalidParameterError{Param: "category", Value: int(c)}
	}
	return nil
}

func validateSortBy(s SortBy) error {
	if !slices.Contains(validSortBy, s) {
		return &InvalidParameterError{Param: "sort_by", Value: string(s)}
	}
	return nil
}

func validateType(t domain.ListingType) error {
	if t != domain.ListingBuyNow && t != domain.ListingAuction {
		return &InvalidParameterError{Param: "type", Value: string(t)}
	}
	return nil
}

// NewListingsRequest validates f and builds GET /listings.
func NewListingsRequest(f ListingsFilter) (Request, error) {
	if f.SortBy == "" {
		f.SortBy = SortBestDeal
	}
	if f.Type == "" {
		f.Type = domain.ListingBuyNow
	}
	if f.Limit == 0 {
		f.Limit = defaultListingsLimit
	}

	if err := validateCategory(f.Category); err != nil {
		return Request{}, err
	}
	if err := validateSortBy(f.SortBy); err != nil {
		return Request{}, err
	}
	if err := validateType(f.Type); err != nil {
		return Request{}, err
	}
	if f.Limit < 0 || f.Limit > maxListingsLimit {
		return Request{}, &InvalidParameterError{Param: "limit", Value: f.Limit}
	}
	if f.Page < 0 {
		return Request{}, &InvalidParameterError{Param: "page", Value: f.Page}
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("limit", strconv.Itoa(f.Limit))
	q.Set("sort_by", string(f.SortBy))
	q.Set("category", strconv.Itoa(int(f.Category)))
	q.Set("type", string(f.Type))

	if f.MinPrice != nil {
		q.Set("min_price", strconv.FormatInt(int64(*f.MinPrice), 10))
	}
	if f.MaxPrice != nil {
		q.Set("max_price", strconv.FormatInt(int64(*f.MaxPrice), 10))
	}
	if len(f.DefIndex) > 0 {
		q.Set("def_index", joinInts(f.DefIndex))
	}
	if f.MinFloat != nil {
		q.Set("min_float", formatFloat(*f.MinFloat))
	}
	if f.MaxFloat != nil {
		q.Set("max_float", formatFloat(*f.MaxFloat))
	}
	if f.Rarity != nil {
		q.Set("rarity", strconv.Itoa(*f.Rarity))
	}
	if f.PaintSeed != nil {
		q.Set("paint_seed", strconv.Itoa(*f.PaintSeed))
	}
	if f.PaintIndex != nil {
		q.Set("paint_index", strconv.Itoa(*f.PaintIndex))
	}
	if f.UserID != nil {
		q.Set("user_id", *f.UserID)
	}
	if f.Collection != nil {
		q.Set("collection", *f.Collection)
	}
	if f.MarketHashName != nil {
		q.Set("market_hash_name", *f.MarketHashName)
	}

	return Request{
		Operation: OpListListings,
		Method:    http.MethodGet,
		Path:      "/listings",
		Query:     q,
	}, nil
}

// NewListingRequest builds GET /listings/{id}.
func NewListingRequest(listingID string) Request {
	return Request{
		Operation: OpGetListing,
		Method:    http.MethodGet,
		Path:      "/listings/" + url.PathEscape(listingID),
	}
}

// NewSimilarListingsRequest builds GET /listings/{id}/similar.
func NewSimilarListingsRequest(listingID string) Request {
	return Request{
		Operation: OpSimilarListings,
		Method:    http.MethodGet,
		Path:      "/listings/" + url.PathEscape(listingID) + "/similar",
	}
}

// NewListingBuyOrdersRequest builds GET /listings/{id}/buy-orders. A
// non-positive limit uses the default of 10.
func NewListingBuyOrdersRequest(listingID string, limit int) Request {
	if limit <= 0 {
		limit = defaultBuyOrdersLimit
	}
	return Request{
		Operation: OpListingBuyOrders,
		Method:    http.MethodGet,
		Path:      "/listings/" + url.PathEscape(listingID) + "/buy-orders",
		Query:     url.Values{"limit": {strconv.Itoa(limit)}},
	}
}

type similarOrdersBody struct {
	MarketHashName string `json:"market_hash_name"`
}

// NewSimilarBuyOrdersRequest builds POST /buy-orders/similar-orders.
func NewSimilarBuyOrdersRequest(marketHashName string, limit int) Request {
	if limit <= 0 {
		limit = defaultBuyOrdersLimit
	}
	return Request{
		Operation: OpSimilarBuyOrders,
		Method:    http.MethodPost,
		Path:      "/buy-orders/similar-orders",
		Query:     url.Values{"limit": {strconv.Itoa(limit)}},
		Body:      similarOrdersBody{MarketHashName: marketHashName},
	}
}

// CreateListingParams describes a new listing. Optional pointer fields are
// sent only when set.
type CreateListingParams struct {
	AssetID          string
	Price            domain.Cents
	Type             domain.ListingType // default buy_now
	MaxOfferDiscount *int
	ReservePrice     *domain.Cents // auctions only
	DurationDays     *int          // auctions only
	Description      string
	Private          bool
}

type createListingBody struct {
	AssetID          string             `json:"asset_id"`
	Price            domain.Cents       `json:"price"`
	Type             domain.ListingType `json:"type"`
	Description      string             `json:"description"`
	Private          bool               `json:"private"`
	MaxOfferDiscount *int               `json:"max_offer_discount,omitempty"`
	ReservePrice     *domain.Cents      `json:"reserve_price,omitempty"`
	DurationDays     *int               `json:"duration_days,omitempty"`
}

// NewCreateListingRequest validates p and builds POST /listings.
func NewCreateListingRequest(p CreateListingParams) (Request, error) {
	if p.Type == "" {
		p.Type = domain.ListingBuyNow
	}
	if err := validateType(p.Type); err != nil {
		return Request{}, err
	}

	return Request{
		Operation: OpCreateListing,
		Method:    http.MethodPost,
		Path:      "/listings",
		Body: createListingBody{
			AssetID:          p.AssetID,
			Price:            p.Price,
			Type:             p.Type,
			Description:      p.Description,
			Private:          p.Private,
			MaxOfferDiscount: p.MaxOfferDiscount,
			ReservePrice:     p.ReservePrice,
			DurationDays:     p.DurationDays,
		},
	}, nil
}

type createBuyOrderBody struct {
	MarketHashName string       `json:"market_hash_name"`
	MaxPrice       domain.Cents `json:"max_price"`
	Quantity       int          `json:"quantity"`
}

// NewCreateBuyOrderRequest builds POST /buy-orders. A zero quantity means 1.
func NewCreateBuyOrderRequest(
	marketHashName string,
	maxPrice domain.Cents,
	quantity int,
) (Request, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return Request{}, &InvalidParameterError{Param: "quantity", Value: quantity}
	}
	return Request{
		Operation: OpCreateBuyOrder,
		Method:    http.MethodPost,
		Path:      "/buy-orders",
		Body: createBuyOrderBody{
			MarketHashName: marketHashName,
			MaxPrice:       maxPrice,
			Quantity:       quantity,
		},
	}, nil
}

type makeOfferBody struct {
	ContractID          string       `json:"contract_id"`
	Price               domain.Cents `json:"price"`
	CancelPreviousOffer bool         `json:"cancel_previous_offer"`
}

// NewMakeOfferRequest builds POST /offers against a listing.
func NewMakeOfferRequest(listingID string, price domain.Cents) Request {
	return Request{
		Operation: OpMakeOffer,
		Method:    http.MethodPost,
		Path:      "/offers",
		Body: makeOfferBody{
			ContractID:          listingID,
			Price:               price,
			CancelPreviousOffer: false,
		},
	}
}

// NewDeleteBuyOrderRequest builds DELETE /buy-orders/{id}.
func NewDeleteBuyOrderRequest(orderID string) Request {
	return Request{
		Operation: OpDeleteBuyOrder,
		Method:    http.MethodDelete,
		Path:      "/buy-orders/" + url.PathEscape(orderID),
	}
}

// NewMyBuyOrdersRequest builds GET /me/buy-orders, newest first.
func NewMyBuyOrdersRequest(page, limit int) Request {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = defaultMyBuyOrdersLimit
	}
	return Request{
		Operation: OpMyBuyOrders,
		Method:    http.MethodGet,
		Path:      "/me/buy-orders",
		Query: url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(limit)},
			"order": {"desc"},
		},
	}
}

// NewMeRequest builds GET /me.
func NewMeRequest() Request {
	return Request{Operation: OpMe, Method: http.MethodGet, Path: "/me"}
}

// NewPendingTradesRequest builds GET /me/trades filtered to pending trades.
func NewPendingTradesRequest(page, limit int) Request {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = defaultTradesLimit
	}
	return Request{
		Operation: OpPendingTrades,
		Method:    http.MethodGet,
		Path:      "/me/trades",
		Query: url.Values{
			"state": {"pending"},
			"limit": {strconv.Itoa(limit)},
			"page":  {strconv.Itoa(page)},
		},
	}
}

// NewExchangeRatesRequest builds GET /meta/exchange-rates.
func NewExchangeRatesRequest() Request {
	return Request{Operation: OpExchangeRates, Method: http.MethodGet, Path: "/meta/exchange-rates"}
}

// NewLocationRequest builds GET /meta/location.
func NewLocationRequest() Request {
	return Request{Operation: OpLocation, Method: http.MethodGet, Path: "/meta/location"}
}

// NewSaleHistoryRequest builds GET /history/{market_hash_name}/sales.
func NewSaleHistoryRequest(marketHashName string) Request {
	return Request{
		Operation: OpSaleHistory,
		Method:    http.MethodGet,
		Path:      "/history/" + url.PathEscape(marketHashName) + "/sales",
	}
}

func joinInts(vals []int) string {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
