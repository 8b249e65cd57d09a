package csfloat

import (
	"context"

	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

// GetListings searches active listings. Invalid filter values fail with an
// *InvalidParameterError before any request is made.
func (c *Client) GetListings(
	ctx context.Context,
	f ListingsFilter,
) ([]domain.Listing, error) {
	req, err := NewListingsRequest(f)
	if err != nil {
		return nil, countError(err)
	}

	raw, _, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	return DecodeListings(raw)
}

// GetListing fetches a single listing by ID.
func (c *Client) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	raw, _, err := c.send(ctx, NewListingRequest(listingID))
	if err != nil {
		return nil, err
	}
	return DecodeListing(raw)
}

// GetSimilarListings returns listings similar to listingID.
func (c *Client) GetSimilarListings(
	ctx context.Context,
	listingID string,
) ([]domain.Listing, error) {
	raw, _, err := c.send(ctx, NewSimilarListingsRequest(listingID))
	if err != nil {
		return nil, err
	}

	items, err := decodeList[apiListing](raw, OpSimilarListings)
	if err != nil {
		return nil, err
	}
	return toListings(items)
}

// GetListingBuyOrders returns the buy orders matching a listing's item.
func (c *Client) GetListingBuyOrders(
	ctx context.Context,
	listingID string,
	limit int,
) ([]domain.BuyOrder, error) {
	raw, _, err := c.send(ctx, NewListingBuyOrdersRequest(listingID, limit))
	if err != nil {
		return nil, err
	}

	orders, err := decodeList[apiBuyOrder](raw, OpListingBuyOrders)
	if err != nil {
		return nil, err
	}
	return toBuyOrders(orders), nil
}

// CreateListing lists an inventory item for sale and returns the new listing.
func (c *Client) CreateListing(
	ctx context.Context,
	p CreateListingParams,
) (*domain.Listing, error) {
	req, err := NewCreateListingRequest(p)
	if err != nil {
		return nil, countError(err)
	}

	raw, _, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	item, err := decodeJSON[apiListing](raw, OpCreateListing)
	if err != nil {
		return nil, err
	}
	l, err := toListing(&item)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// MakeOffer offers price against listingID without cancelling earlier offers.
func (c *Client) MakeOffer(
	ctx context.Context,
	listingID string,
	price domain.Cents,
) (*domain.Offer, error) {
	raw, _, err := c.send(ctx, NewMakeOfferRequest(listingID, price))
	if err != nil {
		return nil, err
	}

	o, err := decodeJSON[apiOffer](raw, OpMakeOffer)
	if err != nil {
		return nil, err
	}
	offer := toOffer(&o)
	return &offer, nil
}
