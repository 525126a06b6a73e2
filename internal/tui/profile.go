package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mugiwarahub/mugiwara/internal/tui/styles"
)

func (m *Model) profileView() string {
	var b strings.Builder

	if m.profile != nil {
		b.WriteString(styles.TitleStyle.Render(m.profile.DisplayName()) + "\n")
		if m.profile.Email != "" {
			b.WriteString(styles.MetadataStyle.Render(m.profile.Email) + "\n")
		}
	}

	b.WriteString("\n" + styles.SectionHeaderActiveStyle.Render("Watch stats") + "\n")
	if m.stats == nil {
		b.WriteString(styles.HelpStyle.Render("No local history"))
		return b.String()
	}

	rows := [][2]string{
		{"Anime started", humanize.Comma(m.stats.AnimeCount)},
		{"Episodes watched", humanize.Comma(m.stats.TotalItems)},
		{"Completed", humanize.Comma(m.stats.CompletedCount)},
		{"Time watched", watchTime(m.stats.TotalWatchTime.Hours())},
	}
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-18s %s\n", r[0], styles.ScoreStyle.Render(r[1])))
	}
	return strings.TrimRight(b.String(), "\n")
}

func watchTime(hours float64) string {
	if hours < 1 {
		return fmt.Sprintf("%.0f min", hours*60)
	}
	return humanize.FormatFloat("#,###.#", hours) + " h"
}
