package csfloat

import (
	"context"

	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

// GetMe returns the authenticated account.
func (c *Client) GetMe(ctx context.Context) (*domain.Me, error) {
	raw, _, err := c.send(ctx, NewMeRequest())
	if err != nil {
		return nil, err
	}

	me, err := decodeJSON[apiMe](raw, OpMe)
	if err != nil {
		return nil, err
	}
	return &domain.Me{
		User:             toUser(&me.User),
		PendingOffers:    me.PendingOffers,
		ActionableTrades: me.ActionableTrades,
	}, nil
}

// GetPendingTrades returns one page of the caller's pending trades.
func (c *Client) GetPendingTrades(
	ctx context.Context,
	page, limit int,
) (*domain.TradesResponse, error) {
	raw, _, err := c.send(ctx, NewPendingTradesRequest(page, limit))
	if err != nil {
		return nil, err
	}
	return DecodeTrades(raw)
}

// GetExchangeRates returns the marketplace's currency rates against USD.
func (c *Client) GetExchangeRates(ctx context.Context) (domain.ExchangeRates, error) {
	raw, _, err := c.send(ctx, NewExchangeRatesRequest())
	if err != nil {
		return nil, err
	}
	return decodeExchangeRates(raw)
}

// GetLocation returns the location the marketplace infers for the caller.
func (c *Client) GetLocation(ctx context.Context) (*domain.Location, error) {
	raw, _, err := c.send(ctx, NewLocationRequest())
	if err != nil {
		return nil, err
	}
	return decodeLocation(raw)
}
