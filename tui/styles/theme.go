package styles

import "github.com/charmbracelet/lipgloss"

// Eagle Park palette: school maroon and gold.
var (
	PrimaryColor = lipgloss.Color("#730012")
	AccentColor  = lipgloss.Color("#DEB838")
	SuccessColor = lipgloss.Color("#22C55E")
	ErrorColor   = lipgloss.Color("#EF4444")
	MutedColor   = lipgloss.Color("#6B7280")
	TextColor    = lipgloss.Color("#F9FAFB")

	Muted = lipgloss.NewStyle().Foreground(MutedColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(AccentColor).
		Padding(0, 1)

	Tagline = lipgloss.NewStyle().
		Bold(true).
		Foreground(AccentColor)

	Label = lipgloss.NewStyle().
		Foreground(TextColor)

	FilterActive = lipgloss.NewStyle().
			Bold(true).
			Background(AccentColor).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 1)

	FilterInactive = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	RowSelected = lipgloss.NewStyle().
			Background(PrimaryColor).
			Foreground(TextColor)

	PriceTag = lipgloss.NewStyle().Foreground(AccentColor)

	Available    = lipgloss.NewStyle().Foreground(SuccessColor)
	NotAvailable = lipgloss.NewStyle().Foreground(ErrorColor)

	Alert = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Padding(0, 1)

	Notice = lipgloss.NewStyle().
		Foreground(SuccessColor).
		Padding(0, 1)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor).
		Padding(0, 1)

	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)
)
