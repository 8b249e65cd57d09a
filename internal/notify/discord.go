package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/donaldgifford/csfloat-tracker/internal/metrics"
)

const (
	colorGreen  = 0x2ECC71 // 20%+ under threshold
	colorYellow = 0xF1C40F // 10-20% under
	colorOrange = 0xE67E22

	itemURLPrefix = "https://csfloat.com/item/"
	iconURLPrefix = "https://community.cloudflare.steamstatic.com/economy/image/"

	maxEmbeds = 10
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Thumbnail   *discordThumbnail   `json:"thumbnail,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordThumbnail struct {
	URL string `json:"url"`
}

// SendAlert sends a single alert as a Discord embed.
func (d *DiscordNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	payload := discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(alert)},
	}
	return d.post(ctx, payload)
}

// SendBatchAlert sends multiple alerts as a single Discord message.
func (d *DiscordNotifier) SendBatchAlert(ctx context.Context, alerts []AlertPayload) error {
	if len(alerts) == 0 {
		return nil
	}

	limit := min(len(alerts), maxEmbeds)
	embeds := make([]discordEmbed, 0, limit+1)
	for i := range limit {
		embeds = append(embeds, buildEmbed(&alerts[i]))
	}

	if len(alerts) > maxEmbeds {
		embeds = append(embeds, discordEmbed{
			Title:       fmt.Sprintf("... and %d more price alerts", len(alerts)-maxEmbeds),
			Color:       colorYellow,
			Description: "Check /api/v1/status on the watch daemon for the full list.",
		})
	}

	return d.post(ctx, discordWebhookPayload{Embeds: embeds})
}

func buildEmbed(alert *AlertPayload) discordEmbed {
	embed := discordEmbed{
		Title: fmt.Sprintf("Price Alert: %s", alert.MarketHashName),
		Color: discountColor(alert.Discount()),
		Fields: []discordEmbedField{
			{Name: "Sold For", Value: "$" + alert.Price.String(), Inline: true},
			{Name: "Alert Below", Value: "$" + alert.Threshold.String(), Inline: true},
			{Name: "Median", Value: "$" + alert.MedianPrice.String(), Inline: true},
		},
	}

	if alert.SaleID != "" {
		embed.URL = itemURLPrefix + alert.SaleID
	}
	if alert.FloatValue != nil {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name: "Float", Value: fmt.Sprintf("%.6f", *alert.FloatValue), Inline: true,
		})
	}
	if alert.IconURL != "" {
		embed.Thumbnail = &discordThumbnail{URL: iconURLPrefix + alert.IconURL}
	}
	if !alert.SoldAt.IsZero() {
		embed.Timestamp = alert.SoldAt.UTC().Format(time.RFC3339)
	}

	return embed
}

func discountColor(discount float64) int {
	switch {
	case discount >= 0.2:
		return colorGreen
	case discount >= 0.1:
		return colorYellow
	default:
		return colorOrange
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	}()

	if err := d.send(ctx, payload); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return err
	}
	return nil
}

func (d *DiscordNotifier) send(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
