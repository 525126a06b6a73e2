package styles

import "github.com/charmbracelet/lipgloss"

// Oxocarbon palette
var (
	Black  = lipgloss.Color("#161616")
	Base00 = lipgloss.Color("#262626")
	Base01 = lipgloss.Color("#393939")
	Base02 = lipgloss.Color("#525252")
	Base03 = lipgloss.Color("#767676")
	Base04 = lipgloss.Color("#dde1e6")
	Base05 = lipgloss.Color("#f2f4f8")
	White  = lipgloss.Color("#ffffff")

	Teal   = lipgloss.Color("#3ddbd9")
	Blue   = lipgloss.Color("#78a9ff")
	Pink   = lipgloss.Color("#ee5396")
	Red    = lipgloss.Color("#ff5252")
	Cyan   = lipgloss.Color("#33b1ff")
	Green  = lipgloss.Color("#42be65")
	Purple = lipgloss.Color("#be95ff")
	Mauve  = lipgloss.Color("#d1aaff")
)

var (
	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Purple).
			Padding(0, 1).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Mauve).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Base03).
			Italic(true)

	ItemStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(Base02).
			BorderLeft(true).
			PaddingLeft(2).
			MarginLeft(1)

	ItemSelectedStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(Purple).
				BorderLeft(true).
				PaddingLeft(2).
				MarginLeft(1)

	ItemTitleStyle = lipgloss.NewStyle().
			Foreground(Base05).
			Bold(true)

	ItemTitleSelectedStyle = lipgloss.NewStyle().
				Foreground(Purple).
				Bold(true)

	MetadataStyle = lipgloss.NewStyle().
			Foreground(Base04)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(Pink).
			Bold(true)

	SectionHeaderStyle = lipgloss.NewStyle().
				Foreground(Base05).
				Background(Base01).
				Padding(0, 1).
				Bold(true)

	SectionHeaderActiveStyle = SectionHeaderStyle.
					Background(Purple).
					Foreground(White)

	GenreBadgeStyle = lipgloss.NewStyle().
			Foreground(Base05).
			Background(Base01).
			Padding(0, 1).
			MarginRight(1)

	SynopsisStyle = lipgloss.NewStyle().
			Foreground(Base04).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Purple)

	FooterStyle = lipgloss.NewStyle().
			Foreground(Base05).
			Background(Base01).
			Padding(0, 1)
)

// GenreColor renders a genre name with its own color
func GenreColor(name, color string) string {
	if color == "" {
		return GenreBadgeStyle.Render(name)
	}
	return GenreBadgeStyle.Foreground(lipgloss.Color(color)).Render(name)
}
