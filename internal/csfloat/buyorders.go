package csfloat

import (
	"context"

	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

const deleteBuyOrderOK = "successfully removed the order"

// GetSimilarBuyOrders returns the top buy orders for a market hash name.
func (c *Client) GetSimilarBuyOrders(
	ctx context.Context,
	marketHashName string,
	limit int,
) ([]domain.SimilarBuyOrder, error) {
	raw, _, err := c.send(ctx, NewSimilarBuyOrdersRequest(marketHashName, limit))
	if err != nil {
		return nil, err
	}

	orders, err := decodeList[apiBuyOrder](raw, OpSimilarBuyOrders)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SimilarBuyOrder, 0, len(orders))
	for i := range orders {
		out = append(out, toSimilarBuyOrder(&orders[i]))
	}
	return out, nil
}

// CreateBuyOrder places a buy order for quantity items at up to maxPrice.
func (c *Client) CreateBuyOrder(
	ctx context.Context,
	marketHashName string,
	maxPrice domain.Cents,
	quantity int,
) (*domain.SimilarBuyOrder, error) {
	req, err := NewCreateBuyOrderRequest(marketHashName, maxPrice, quantity)
	if err != nil {
		return nil, countError(err)
	}

	raw, _, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	o, err := decodeJSON[apiBuyOrder](raw, OpCreateBuyOrder)
	if err != nil {
		return nil, err
	}
	order := toSimilarBuyOrder(&o)
	return &order, nil
}

// DeleteBuyOrder removes one of the caller's buy orders. A 200 response whose
// message is not the API's confirmation fails with *OperationFailedError.
func (c *Client) DeleteBuyOrder(ctx context.Context, orderID string) error {
	raw, _, err := c.send(ctx, NewDeleteBuyOrderRequest(orderID))
	if err != nil {
		return err
	}

	msg, err := decodeJSON[apiMessage](raw, OpDeleteBuyOrder)
	if err != nil || msg.Message != deleteBuyOrderOK {
		opErr := &OperationFailedError{Operation: OpDeleteBuyOrder, Detail: string(raw)}
		c.log.Warn("csfloat operation failed",
			"operation", OpDeleteBuyOrder,
			"order_id", orderID,
			"response", string(raw),
		)
		return countError(opErr)
	}
	return nil
}

// GetMyBuyOrders returns one page of the caller's buy orders, newest first.
func (c *Client) GetMyBuyOrders(
	ctx context.Context,
	page, limit int,
) (*domain.MyBuyOrdersResponse, error) {
	raw, _, err := c.send(ctx, NewMyBuyOrdersRequest(page, limit))
	if err != nil {
		return nil, err
	}

	resp, err := decodeJSON[apiMyBuyOrders](raw, OpMyBuyOrders)
	if err != nil {
		return nil, err
	}
	return &domain.MyBuyOrdersResponse{
		Orders: toBuyOrders(resp.Orders),
		Count:  resp.Count,
	}, nil
}
