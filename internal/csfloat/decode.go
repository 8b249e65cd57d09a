package csfloat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

// decodeJSON unmarshals a success payload into T.
func decodeJSON[T any](raw json.RawMessage, op string) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("parsing %s response: %w", op, err)
	}
	return v, nil
}

// decodeList accepts either a bare JSON array or an object wrapping the
// array under "data"; the API uses both for collection endpoints.
func decodeList[T any](raw json.RawMessage, op string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Data []T `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("parsing %s response: %w", op, err)
		}
		return wrapped.Data, nil
	}
	return decodeJSON[[]T](trimmed, op)
}

// DecodeListings decodes a listings payload (array or {"data": [...]}).
func DecodeListings(raw json.RawMessage) ([]domain.Listing, error) {
	items, err := decodeList[apiListing](raw, OpListListings)
	if err != nil {
		return nil, err
	}
	return toListings(items)
}

// DecodeListing decodes a single listing object.
func DecodeListing(raw json.RawMessage) (*domain.Listing, error) {
	item, err := decodeJSON[apiListing](raw, OpGetListing)
	if err != nil {
		return nil, err
	}
	l, err := toListing(&item)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// DecodeSales decodes a sale history payload.
func DecodeSales(raw json.RawMessage) ([]domain.ItemSale, error) {
	items, err := decodeList[apiItemSale](raw, OpSaleHistory)
	if err != nil {
		return nil, err
	}
	sales := make([]domain.ItemSale, 0, len(items))
	for i := range items {
		s, err := toItemSale(&items[i])
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, nil
}

// DecodeTrades decodes a trades page.
func DecodeTrades(raw json.RawMessage) (*domain.TradesResponse, error) {
	resp, err := decodeJSON[apiTrades](raw, OpPendingTrades)
	if err != nil {
		return nil, err
	}
	out := &domain.TradesResponse{
		Trades: make([]domain.Trade, 0, len(resp.Trades)),
		Count:  resp.Count,
	}
	for i := range resp.Trades {
		out.Trades = append(out.Trades, toTrade(&resp.Trades[i]))
	}
	return out, nil
}

// decodeExchangeRates accepts {"data": {...}} or a flat currency map and keeps
// only numeric rates.
func decodeExchangeRates(raw json.RawMessage) (domain.ExchangeRates, error) {
	fields, err := decodeJSON[map[string]json.RawMessage](raw, OpExchangeRates)
	if err != nil {
		return nil, err
	}
	if data, ok := fields["data"]; ok {
		inner, err := decodeJSON[map[string]json.RawMessage](data, OpExchangeRates)
		if err != nil {
			return nil, err
		}
		fields = inner
	}

	rates := make(domain.ExchangeRates, len(fields))
	for code, v := range fields {
		f, err := strconv.ParseFloat(string(bytes.TrimSpace(v)), 64)
		if err != nil {
			continue
		}
		rates[code] = f
	}
	return rates, nil
}

func decodeLocation(raw json.RawMessage) (*domain.Location, error) {
	fields, err := decodeJSON[map[string]any](raw, OpLocation)
	if err != nil {
		return nil, err
	}

	loc := &domain.Location{Extra: fields}
	lookup := func(m map[string]any) {
		if s, ok := m["currency"].(string); ok && loc.Currency == "" {
			loc.Currency = s
		}
		if s, ok := m["country"].(string); ok && loc.Country == "" {
			loc.Country = s
		}
		if s, ok := m["short"].(string); ok && loc.Country == "" {
			loc.Country = s
		}
	}
	lookup(fields)
	if inferred, ok := fields["inferred_location"].(map[string]any); ok {
		lookup(inferred)
	}
	return loc, nil
}
