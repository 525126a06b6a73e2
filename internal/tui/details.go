package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mugiwarahub/mugiwara/internal/anilist"
	"github.com/mugiwarahub/mugiwara/internal/backend"
	"github.com/mugiwarahub/mugiwara/internal/episodes"
	"github.com/mugiwarahub/mugiwara/internal/providers/utils"
	"github.com/mugiwarahub/mugiwara/internal/tui/styles"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

const (
	synopsisLength  = 400
	commentsShown   = 5
	relationsShown  = 5
	episodeRowsSeen = 8
)

func (m *Model) groupSize() int {
	if m.deps.Config.UI.EpisodeGroupSize > 0 {
		return m.deps.Config.UI.EpisodeGroupSize
	}
	return episodes.DefaultGroupSize
}

// visibleEpisodes is the selected range of the episode list
func (m *Model) visibleEpisodes() []episodes.Entry {
	return episodes.Slice(m.entries, m.group, m.groupSize())
}

func (m *Model) updateDetails(msg tea.KeyMsg) tea.Cmd {
	groups := episodes.Groups(len(m.entries), m.groupSize())
	visible := m.visibleEpisodes()

	switch {
	case key.Matches(msg, m.keys.NextSection):
		if m.focus == focusEpisodes {
			m.focus = focusComments
		} else {
			m.focus = focusEpisodes
		}
	case key.Matches(msg, m.keys.NextGroup):
		if m.group < len(groups)-1 {
			m.group++
			m.episodeCursor = 0
		}
	case key.Matches(msg, m.keys.PrevGroup):
		if m.group > 0 {
			m.group--
			m.episodeCursor = 0
		}
	case key.Matches(msg, m.keys.Up):
		if m.focus == focusEpisodes && m.episodeCursor > 0 {
			m.episodeCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.focus == focusEpisodes && m.episodeCursor < len(visible)-1 {
			m.episodeCursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.focus != focusEpisodes || m.episodeCursor >= len(visible) {
			return nil
		}
		entry := visible[m.episodeCursor]
		id := episodes.NewWatchID(entry, m.detailsID, m.animeTitle())
		m.status = styles.SubtitleStyle.Render("Starting " + id.Title() + "...")
		return m.watch(id)
	case key.Matches(msg, m.keys.Watchlist):
		if !m.loggedIn() || m.deps.Account == nil {
			m.status = styles.ErrorStyle.Render("Log in to use the watchlist")
			return nil
		}
		if m.details == nil {
			return nil
		}
		info := m.details.Info
		return m.toggleWatchlist(backend.WatchlistItem{
			AnimeID:       backend.FlexInt(m.detailsID),
			EnglishTitle:  utils.DefaultString(info.Title.English, info.Title.Romaji),
			JapaneseTitle: info.Title.Romaji,
			ImageURL:      info.Image,
			Synopsis:      synopsis(info.Description, synopsisLength),
		})
	case key.Matches(msg, m.keys.Comment):
		if !m.loggedIn() || m.deps.Account == nil {
			m.status = styles.ErrorStyle.Render("Log in to comment")
			return nil
		}
		m.focus = focusComments
		m.commentInput.Focus()
		return textinput.Blink
	}
	return nil
}

func (m *Model) animeTitle() string {
	if m.details == nil {
		return ""
	}
	return m.details.Info.Title.Preferred()
}

func (m *Model) detailsView() string {
	if m.details == nil {
		return ""
	}
	info := m.details.Info
	width := max(m.width-6, 20)

	var b strings.Builder
	title := styles.TitleStyle.Render(info.Title.Preferred())
	if m.inWatchlist {
		title += " " + styles.SuccessStyle.Render("✓ In watchlist")
	}
	b.WriteString(title + "\n")
	if info.Title.Romaji != "" && info.Title.Romaji != info.Title.Preferred() {
		b.WriteString(styles.SubtitleStyle.Render(info.Title.Romaji) + "\n")
	}

	var meta []string
	if info.Rating > 0 {
		meta = append(meta, styles.ScoreStyle.Render(fmt.Sprintf("★ %.1f", info.Rating)))
	}
	for _, s := range []string{info.Type, info.Status, strings.TrimSpace(info.Season + " " + yearLabel(info.ReleaseDate))} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if n := utils.DefaultInt(info.TotalEpisodes, info.Episodes.Sub); n > 0 {
		meta = append(meta, plural(n, "episode"))
	}
	if info.Duration > 0 {
		meta = append(meta, fmt.Sprintf("%d min", info.Duration))
	}
	if len(info.Studios) > 0 {
		meta = append(meta, strings.Join(info.Studios, ", "))
	}
	b.WriteString(styles.MetadataStyle.Render(strings.Join(meta, " • ")) + "\n")

	if len(info.Genres) > 0 {
		var badges []string
		for _, g := range info.Genres {
			color := ""
			if match, ok := anilist.MatchGenre(g); ok {
				color = match.Color
			}
			badges = append(badges, styles.GenreColor(g, color))
		}
		b.WriteString(strings.Join(badges, "") + "\n")
	}

	if text := synopsis(info.Description, synopsisLength); text != "" {
		b.WriteString("\n" + styles.SynopsisStyle.Width(width).Render(text) + "\n")
	}

	b.WriteString("\n" + m.episodesView())

	if len(m.details.Relations) > 0 {
		b.WriteString("\n\n" + styles.SectionHeaderStyle.Render("Related") + "\n")
		for i, r := range m.details.Relations {
			if i == relationsShown {
				break
			}
			b.WriteString(styles.MetadataStyle.Render(fmt.Sprintf("  %s: %s", r.RelationType, r.Title.Preferred())) + "\n")
		}
	}

	b.WriteString("\n" + m.commentsView())
	return b.String()
}

func (m *Model) episodesView() string {
	header := styles.SectionHeaderStyle
	if m.focus == focusEpisodes {
		header = styles.SectionHeaderActiveStyle
	}

	switch {
	case m.episodesLoading:
		return header.Render("Episodes") + "\n" + m.spinner.View() + " Loading episodes..."
	case m.episodesErr != nil:
		msg := m.episodesErr.Error()
		if errors.Is(m.episodesErr, types.ErrNoEpisodes) {
			msg = "No episodes available yet"
		}
		return header.Render("Episodes") + "\n" + styles.ErrorStyle.Render(msg)
	}

	groups := episodes.Groups(len(m.entries), m.groupSize())
	label := groups[min(m.group, len(groups)-1)].Label
	if len(groups) > 1 {
		label = fmt.Sprintf("%s (%d/%d)", label, m.group+1, len(groups))
	}

	var b strings.Builder
	b.WriteString(header.Render(label) + "\n")

	visible := m.visibleEpisodes()
	start := max(0, min(m.episodeCursor-episodeRowsSeen/2, len(visible)-episodeRowsSeen))
	end := min(start+episodeRowsSeen, len(visible))
	for i := start; i < end; i++ {
		e := visible[i]
		line := fmt.Sprintf("%3d  %s", e.Number, utils.DefaultString(e.Title, fmt.Sprintf("Episode %d", e.Number)))
		line = utils.TruncateWidth(line, max(m.width-10, 20))
		if i == m.episodeCursor && m.focus == focusEpisodes {
			b.WriteString(styles.ItemTitleSelectedStyle.Render("▶ "+line) + "\n")
		} else {
			b.WriteString(styles.ItemTitleStyle.Render("  "+line) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) commentsView() string {
	header := styles.SectionHeaderStyle
	if m.focus == focusComments {
		header = styles.SectionHeaderActiveStyle
	}

	var b strings.Builder
	b.WriteString(header.Render("Comments ("+itoa(len(m.comments))+")") + "\n")

	if m.commentInput.Focused() {
		b.WriteString(m.commentInput.View() + "\n")
	}
	if m.commentsErr != nil {
		b.WriteString(styles.ErrorStyle.Render(m.commentsErr.Error()) + "\n")
	}
	if len(m.comments) == 0 {
		b.WriteString(styles.HelpStyle.Render("No comments yet"))
		return b.String()
	}

	width := max(m.width-10, 20)
	for i, c := range m.comments {
		if i == commentsShown {
			b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("… %d more", len(m.comments)-commentsShown)))
			break
		}
		author := utils.DefaultString(c.User.Name, "Anonymous")
		head := styles.ItemTitleStyle.Render(author)
		if age := c.Age(); age != "" {
			head += " " + styles.MetadataStyle.Render(age)
		}
		b.WriteString(head + "\n" + lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(c.Content) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func yearLabel(year int) string {
	if year <= 0 {
		return ""
	}
	return itoa(year)
}
