package moderation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/friesse/fragNet/internal/model"
)

// Discord webhook payload shapes. Only the fields the notification uses.
type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []embedField `json:"fields"`
	Footer    embedFooter  `json:"footer"`
	Timestamp string       `json:"timestamp"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// buildPayload renders one batch of reports against a single player into a
// Discord embed.
func buildPayload(reports []Report, roleID string) webhookPayload {
	target := reports[0]

	typeCounts := make(map[int16]int)
	reporters := make(map[uint64]bool)
	total := 0
	for _, r := range reports {
		reporters[r.ReporterSteamID] = true
		for _, t := range r.Types {
			typeCounts[t]++
			total++
		}
	}

	types := make([]int16, 0, len(typeCounts))
	for t := range typeCounts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var summary strings.Builder
	for _, t := range types {
		fmt.Fprintf(&summary, "%s **%s** ×%d\n", model.ReportTypeEmoji(t), model.ReportTypeName(t), typeCounts[t])
	}

	targetName := target.TargetName
	if targetName == "" {
		targetName = fmt.Sprintf("Player %d", model.AccountID(target.TargetSteamID))
	}

	fields := []embedField{
		{
			Name: "Reported Player",
			Value: fmt.Sprintf("**%s**\n[Profile](https://steamcommunity.com/profiles/%d)",
				targetName, target.TargetSteamID),
			Inline: false,
		},
		{
			Name:   "Report Types",
			Value:  strings.TrimRight(summary.String(), "\n"),
			Inline: false,
		},
		{
			Name:   "Stats",
			Value:  fmt.Sprintf("Total reports: **%d**\nUnique reporters: **%d**", total, len(reporters)),
			Inline: false,
		},
	}

	if lines := reporterLines(reports); lines != "" {
		fields = append(fields, embedField{
			Name:   "Recent Reporters",
			Value:  lines,
			Inline: false,
		})
	}

	payload := webhookPayload{
		Embeds: []embed{{
			Title:     "🚨 New Player Report(s)",
			Color:     embedColor,
			Fields:    fields,
			Footer:    embedFooter{Text: "fragNet Report System"},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
	if roleID != "" {
		payload.Content = fmt.Sprintf("<@&%s>", roleID)
	}
	return payload
}

// reporterLines renders the most recent reporters, newest first, capped.
func reporterLines(reports []Report) string {
	sorted := make([]Report, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ReportedAt.After(sorted[j].ReportedAt) })

	seen := make(map[uint64]bool)
	var lines []string
	for _, r := range sorted {
		if seen[r.ReporterSteamID] {
			continue
		}
		seen[r.ReporterSteamID] = true

		name := r.ReporterName
		if name == "" {
			name = fmt.Sprintf("Player %d", model.AccountID(r.ReporterSteamID))
		}
		lines = append(lines, fmt.Sprintf("• %s (`%d`)", name, r.ReporterSteamID))
		if len(lines) == maxReporterLines {
			break
		}
	}
	return strings.Join(lines, "\n")
}
