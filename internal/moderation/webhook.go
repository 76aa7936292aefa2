// Package moderation fans player reports out to a Discord-style webhook.
// Reports against the same player are coalesced for a few seconds so a wave
// of reports after one match produces one notification.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	coalesceWindow   = 5 * time.Second
	postTimeout      = 10 * time.Second
	embedColor       = 16728132
	maxReporterLines = 5
)

// Report is one report event as the social service hands it over.
type Report struct {
	ReporterSteamID uint64
	ReporterName    string
	TargetSteamID   uint64
	TargetName      string
	Types           []int16
	ReportedAt      time.Time
}

// Webhook batches reports per target and POSTs notification payloads.
// Delivery is at most once; reports are already durable in the database, so
// a failed POST is only logged.
type Webhook struct {
	url    string
	roleID string
	client *http.Client

	mu      sync.Mutex
	pending map[uint64]*batch
}

type batch struct {
	reports []Report
	started time.Time
}

// NewWebhook creates the fan-out worker. An empty url disables delivery;
// Enqueue becomes a no-op.
func NewWebhook(url, roleID string) *Webhook {
	return &Webhook{
		url:     url,
		roleID:  roleID,
		client:  &http.Client{Timeout: postTimeout},
		pending: make(map[uint64]*batch),
	}
}

// Enqueue adds one report to the target's pending batch.
func (w *Webhook) Enqueue(r Report) {
	if w.url == "" {
		return
	}
	if r.ReportedAt.IsZero() {
		r.ReportedAt = time.Now()
	}

	w.mu.Lock()
	b, ok := w.pending[r.TargetSteamID]
	if !ok {
		b = &batch{started: time.Now()}
		w.pending[r.TargetSteamID] = b
	}
	b.reports = append(b.reports, r)
	w.mu.Unlock()
}

// Run flushes matured batches until ctx is cancelled, then flushes whatever
// is left.
func (w *Webhook) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.flush(context.WithoutCancel(ctx), true)
			return nil
		case <-ticker.C:
			w.flush(ctx, false)
		}
	}
}

// flush sends every batch older than the coalescing window (or all of them
// when force is set).
func (w *Webhook) flush(ctx context.Context, force bool) {
	now := time.Now()

	w.mu.Lock()
	var due []*batch
	for target, b := range w.pending {
		if force || now.Sub(b.started) >= coalesceWindow {
			due = append(due, b)
			delete(w.pending, target)
		}
	}
	w.mu.Unlock()

	for _, b := range due {
		if err := w.post(ctx, b.reports); err != nil {
			slog.Error("report webhook delivery failed",
				"target", b.reports[0].TargetSteamID, "reports", len(b.reports), "error", err)
		}
	}
}

func (w *Webhook) post(ctx context.Context, reports []Report) error {
	body, err := json.Marshal(buildPayload(reports, w.roleID))
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	slog.Info("report notification delivered",
		"target", reports[0].TargetSteamID, "reports", len(reports))
	return nil
}
