package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded alerts. It is used
// when no webhook is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards alerts with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendAlert logs and discards a single alert.
func (n *NoOpNotifier) SendAlert(_ context.Context, alert *AlertPayload) error {
	n.log.Info("price alert (no webhook configured)",
		"market_hash_name", alert.MarketHashName,
		"sale_id", alert.SaleID,
		"price", alert.Price.String(),
		"threshold", alert.Threshold.String(),
	)
	return nil
}

// SendBatchAlert logs and discards a batch of alerts.
func (n *NoOpNotifier) SendBatchAlert(ctx context.Context, alerts []AlertPayload) error {
	for i := range alerts {
		_ = n.SendAlert(ctx, &alerts[i])
	}
	return nil
}
