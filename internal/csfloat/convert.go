package csfloat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

func centsPtr(v *int64) *domain.Cents {
	if v == nil {
		return nil
	}
	c := domain.Cents(*v)
	return &c
}

func toSticker(s *apiSticker) domain.Sticker {
	st := domain.Sticker{
		StickerID: s.StickerID,
		Slot:      s.Slot,
		Name:      s.Name,
		IconURL:   s.IconURL,
	}
	if s.Wear != nil {
		st.Wear = *s.Wear
	}
	if s.Reference != nil && s.Reference.Price != nil {
		c := domain.Cents(math.Round(*s.Reference.Price))
		st.Price = &c
	}
	return st
}

func toItem(it *apiItem) domain.Item {
	item := domain.Item{
		AssetID:           it.AssetID,
		DefIndex:          it.DefIndex,
		PaintIndex:        it.PaintIndex,
		PaintSeed:         it.PaintSeed,
		FloatValue:        it.FloatValue,
		IconURL:           it.IconURL,
		DParam:            it.DParam,
		IsStatTrak:        it.IsStatTrak,
		IsSouvenir:        it.IsSouvenir,
		Rarity:            it.Rarity,
		Quality:           it.Quality,
		MarketHashName:    it.MarketHashName,
		Tradable:          it.Tradable,
		InspectLink:       it.InspectLink,
		HasScreenshot:     it.HasScreenshot,
		ScreenshotID:      it.ScreenshotID,
		ScreenshotAt:      it.ScreenshotAt.ptr(),
		IsCommodity:       it.IsCommodity,
		Type:              it.Type,
		RarityName:        it.RarityName,
		TypeName:          it.TypeName,
		ItemName:          it.ItemName,
		WearName:          it.WearName,
		Description:       it.Description,
		Collection:        it.Collection,
		SerializedInspect: it.SerializedInspect,
		GSSig:             it.GSSig,
	}

	// Stickers stay nil when the payload has none, keeping API order otherwise.
	if len(it.Stickers) > 0 {
		item.Stickers = make([]domain.Sticker, 0, len(it.Stickers))
		for i := range it.Stickers {
			item.Stickers = append(item.Stickers, toSticker(&it.Stickers[i]))
		}
	}

	return item
}

func toUser(u *apiUser) domain.User {
	return domain.User{
		SteamID:        u.SteamID,
		Username:       u.Username,
		Avatar:         u.Avatar,
		Flags:          u.Flags,
		Online:         u.Online,
		StallPublic:    u.StallPublic,
		Balance:        centsPtr(u.Balance),
		PendingBalance: centsPtr(u.PendingBalance),
		Statistics: domain.UserStats{
			MedianTradeTime:     u.Statistics.MedianTradeTime,
			TotalAvoidedTrades:  u.Statistics.TotalAvoidedTrades,
			TotalFailedTrades:   u.Statistics.TotalFailedTrades,
			TotalTrades:         u.Statistics.TotalTrades,
			TotalVerifiedTrades: u.Statistics.TotalVerifiedTrades,
		},
	}
}

// decodeReference resolves the reference union by shape: an object carrying
// every PriceReference key with the right types is structured, any other
// object is opaque.
func decodeReference(raw json.RawMessage) (domain.SaleReference, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.SaleReference{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return domain.SaleReference{}, fmt.Errorf("reference is not an object: %w", err)
	}

	if hasAllKeys(fields, priceReferenceKeys) {
		var ref apiPriceReference
		if err := json.Unmarshal(trimmed, &ref); err == nil {
			return domain.StructuredReference(domain.PriceReference{
				BasePrice:      domain.Cents(ref.BasePrice),
				FloatFactor:    ref.FloatFactor,
				PredictedPrice: domain.Cents(ref.PredictedPrice),
				Quantity:       ref.Quantity,
				LastUpdated:    ref.LastUpdated,
			}), nil
		}
	}

	var opaque map[string]any
	if err := json.Unmarshal(trimmed, &opaque); err != nil {
		return domain.SaleReference{}, fmt.Errorf("decoding opaque reference: %w", err)
	}
	return domain.OpaqueReference(opaque), nil
}

func hasAllKeys(fields map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		v, ok := fields[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return false
		}
	}
	return true
}

func toListing(l *apiListing) (domain.Listing, error) {
	ref, err := decodeReference(l.Reference)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("listing %s: %w", l.ID, err)
	}

	listing := domain.Listing{
		ID:               l.ID,
		CreatedAt:        l.CreatedAt.value(),
		Type:             domain.ListingType(l.Type),
		Price:            domain.Cents(l.Price),
		State:            l.State,
		Reference:        ref,
		Item:             toItem(&l.Item),
		IsSeller:         l.IsSeller,
		MinOfferPrice:    centsPtr(l.MinOfferPrice),
		MaxOfferDiscount: l.MaxOfferDiscount,
		IsWatchlisted:    l.IsWatchlisted,
		Watchers:         l.Watchers,
		Description:      l.Description,
		Private:          l.Private,
	}

	if l.Seller != nil {
		u := toUser(l.Seller)
		listing.Seller = &u
	}

	if a := l.AuctionDetails; a != nil {
		listing.AuctionDetails = &domain.AuctionDetail{
			ReservePrice: domain.Cents(a.ReservePrice),
			ExpiresAt:    a.ExpiresAt.ptr(),
			MinNextBid:   domain.Cents(a.MinNextBid),
		}
	}

	return listing, nil
}

// toListings converts decoded listing payloads into domain listings.
func toListings(items []apiListing) ([]domain.Listing, error) {
	listings := make([]domain.Listing, 0, len(items))
	for i := range items {
		l, err := toListing(&items[i])
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func toItemSale(s *apiItemSale) (domain.ItemSale, error) {
	ref, err := decodeReference(s.Reference)
	if err != nil {
		return domain.ItemSale{}, fmt.Errorf("sale %s: %w", s.ID, err)
	}
	return domain.ItemSale{
		ID:            s.ID,
		CreatedAt:     s.CreatedAt.value(),
		Type:          domain.ListingType(s.Type),
		Price:         domain.Cents(s.Price),
		State:         s.State,
		Reference:     ref,
		Item:          toItem(&s.Item),
		IsSeller:      s.IsSeller,
		IsWatchlisted: s.IsWatchlisted,
		Watchers:      s.Watchers,
		SoldAt:        s.SoldAt.value(),
	}, nil
}

func toBuyOrder(o *apiBuyOrder) domain.BuyOrder {
	return domain.BuyOrder{
		ID:             o.ID,
		CreatedAt:      o.CreatedAt.ptr(),
		MarketHashName: o.MarketHashName,
		Expression:     o.Expression,
		Qty:            o.Qty,
		Price:          domain.Cents(o.Price),
	}
}

func toBuyOrders(orders []apiBuyOrder) []domain.BuyOrder {
	out := make([]domain.BuyOrder, 0, len(orders))
	for i := range orders {
		out = append(out, toBuyOrder(&orders[i]))
	}
	return out
}

func toSimilarBuyOrder(o *apiBuyOrder) domain.SimilarBuyOrder {
	return domain.SimilarBuyOrder{
		ID:             o.ID,
		CreatedAt:      o.CreatedAt.value(),
		MarketHashName: o.MarketHashName,
		Qty:            o.Qty,
		Price:          domain.Cents(o.Price),
	}
}

func toTrade(t *apiTrade) domain.Trade {
	return domain.Trade{
		ID: t.ID,
		Contract: domain.Contract{
			ID:    t.Contract.ID,
			Price: domain.Cents(t.Contract.Price),
			State: t.Contract.State,
			Item:  toItem(&t.Contract.Item),
		},
		AcceptedAt: t.AcceptedAt.ptr(),
		State:      domain.TradeState(t.State),
	}
}

func toOffer(o *apiOffer) domain.Offer {
	return domain.Offer{
		ID:         o.ID,
		ContractID: o.ContractID,
		Price:      domain.Cents(o.Price),
		State:      o.State,
		Type:       o.Type,
		BuyerID:    o.BuyerID,
		SellerID:   o.SellerID,
		CreatedAt:  o.CreatedAt.ptr(),
		ExpiresAt:  o.ExpiresAt.ptr(),
	}
}
