// Package notify defines the notification interface and implementations
// for price alert delivery.
package notify

import (
	"context"
	"time"

	domain "github.com/donaldgifford/csfloat-tracker/pkg/types"
)

// AlertPayload describes a sale that went through at or below the price the
// user asked to be alerted at.
type AlertPayload struct {
	MarketHashName string
	SaleID         string
	Price          domain.Cents
	Threshold      domain.Cents
	MedianPrice    domain.Cents
	FloatValue     *float64
	IconURL        string
	SoldAt         time.Time
}

// Discount returns how far the sale price is below the threshold as a
// fraction of the threshold.
func (a *AlertPayload) Discount() float64 {
	if a.Threshold <= 0 {
		return 0
	}
	return float64(a.Threshold-a.Price) / float64(a.Threshold)
}

// Notifier defines the interface for sending price alert notifications.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
	SendBatchAlert(ctx context.Context, alerts []AlertPayload) error
}
