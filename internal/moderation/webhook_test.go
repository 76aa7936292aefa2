package moderation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friesse/fragNet/internal/model"
)

const reportedSteamID = uint64(76561198000099999)

func sampleReports() []Report {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []Report{
		{
			ReporterSteamID: 76561198000000001,
			ReporterName:    "alpha",
			TargetSteamID:   reportedSteamID,
			Types:           []int16{model.ReportAimbot, model.ReportWallhack},
			ReportedAt:      base,
		},
		{
			ReporterSteamID: 76561198000000002,
			ReporterName:    "bravo",
			TargetSteamID:   reportedSteamID,
			Types:           []int16{model.ReportAimbot},
			ReportedAt:      base.Add(time.Minute),
		},
	}
}

func TestBuildPayload(t *testing.T) {
	p := buildPayload(sampleReports(), "424242")

	assert.Equal(t, "<@&424242>", p.Content)
	require.Len(t, p.Embeds, 1)
	e := p.Embeds[0]

	assert.Equal(t, "🚨 New Player Report(s)", e.Title)
	assert.Equal(t, embedColor, e.Color)
	assert.Equal(t, "fragNet Report System", e.Footer.Text)

	_, err := time.Parse(time.RFC3339, e.Timestamp)
	assert.NoError(t, err)

	require.Len(t, e.Fields, 4)

	player := e.Fields[0]
	assert.Equal(t, "Reported Player", player.Name)
	assert.Contains(t, player.Value, "https://steamcommunity.com/profiles/76561198000099999")

	types := e.Fields[1]
	assert.Equal(t, "Report Types", types.Name)
	assert.Contains(t, types.Value, "🎯 **Aimbot** ×2")
	assert.Contains(t, types.Value, "👻 **Wallhack** ×1")
	aimbotIdx := strings.Index(types.Value, "Aimbot")
	wallhackIdx := strings.Index(types.Value, "Wallhack")
	assert.Less(t, aimbotIdx, wallhackIdx, "types sorted by enum value")

	stats := e.Fields[2]
	assert.Contains(t, stats.Value, "Total reports: **3**")
	assert.Contains(t, stats.Value, "Unique reporters: **2**")

	reporters := e.Fields[3]
	assert.Equal(t, "Recent Reporters", reporters.Name)
	lines := strings.Split(reporters.Value, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "bravo", "newest reporter first")
	assert.Contains(t, lines[1], "alpha")
}

func TestBuildPayloadNoRoleNoNames(t *testing.T) {
	reports := []Report{{
		ReporterSteamID: 76561198000000001,
		TargetSteamID:   reportedSteamID,
		Types:           []int16{model.ReportGriefing},
		ReportedAt:      time.Now(),
	}}

	p := buildPayload(reports, "")

	assert.Empty(t, p.Content)
	e := p.Embeds[0]
	assert.Contains(t, e.Fields[0].Value, "Player ", "falls back to a synthetic name")
	assert.Contains(t, e.Fields[3].Value, "Player ")
}

func TestReporterLinesCapped(t *testing.T) {
	base := time.Now()
	var reports []Report
	for i := 0; i < 8; i++ {
		reports = append(reports, Report{
			ReporterSteamID: uint64(100 + i),
			TargetSteamID:   reportedSteamID,
			Types:           []int16{model.ReportAimbot},
			ReportedAt:      base.Add(time.Duration(i) * time.Second),
		})
	}

	lines := strings.Split(reporterLines(reports), "\n")
	require.Len(t, lines, maxReporterLines)
	assert.Contains(t, lines[0], "`107`", "newest first")
}

func TestReporterLinesDeduplicates(t *testing.T) {
	base := time.Now()
	reports := []Report{
		{ReporterSteamID: 100, TargetSteamID: reportedSteamID, ReportedAt: base},
		{ReporterSteamID: 100, TargetSteamID: reportedSteamID, ReportedAt: base.Add(time.Second)},
		{ReporterSteamID: 101, TargetSteamID: reportedSteamID, ReportedAt: base.Add(2 * time.Second)},
	}

	lines := strings.Split(reporterLines(reports), "\n")
	assert.Len(t, lines, 2)
}

func TestFlushDelivers(t *testing.T) {
	var posts atomic.Int32
	var body atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		body.Store(b)
		posts.Add(1)
		rw.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, "")
	for _, r := range sampleReports() {
		w.Enqueue(r)
	}

	// Batch is younger than the coalescing window.
	w.flush(context.Background(), false)
	assert.Zero(t, posts.Load())

	w.flush(context.Background(), true)
	require.Equal(t, int32(1), posts.Load(), "batched into one notification")

	var p webhookPayload
	require.NoError(t, json.Unmarshal(body.Load().([]byte), &p))
	require.Len(t, p.Embeds, 1)
	assert.Contains(t, p.Embeds[0].Fields[2].Value, "Total reports: **3**")

	// Batch consumed.
	w.flush(context.Background(), true)
	assert.Equal(t, int32(1), posts.Load())
}

func TestFlushSeparateTargets(t *testing.T) {
	var posts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		posts.Add(1)
		rw.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, "")
	w.Enqueue(Report{ReporterSteamID: 1, TargetSteamID: 100, Types: []int16{model.ReportAimbot}})
	w.Enqueue(Report{ReporterSteamID: 1, TargetSteamID: 200, Types: []int16{model.ReportAimbot}})

	w.flush(context.Background(), true)
	assert.Equal(t, int32(2), posts.Load(), "one notification per target")
}

func TestPostRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL, "")
	err := w.post(context.Background(), sampleReports())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestDisabledWebhook(t *testing.T) {
	w := NewWebhook("", "")
	w.Enqueue(sampleReports()[0])

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.pending)
}
