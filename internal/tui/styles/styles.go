package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	BrickYellow = lipgloss.Color("#FFCF00")
	BrickRed    = lipgloss.Color("#D01012")
	SlateDark   = lipgloss.Color("#1F2937")
	SlateLight  = lipgloss.Color("#374151")
	DimGray     = lipgloss.Color("#6B7280")
	LightGray   = lipgloss.Color("#9CA3AF")
	White       = lipgloss.Color("#F9FAFB")
	Green       = lipgloss.Color("#10B981")
	Blue        = lipgloss.Color("#3B82F6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(BrickYellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(BrickRed)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Tab bar styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(BrickYellow).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)
)

// Raw membership characters (unstyled)
const (
	OwnedChar  = "■"
	WishedChar = "♥"
)

// Pre-rendered membership marks
var (
	OwnedMark  = lipgloss.NewStyle().Foreground(Green).Render(OwnedChar)
	WishedMark = lipgloss.NewStyle().Foreground(BrickRed).Render(WishedChar)
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Detail panel
var (
	DetailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BrickYellow).
			Padding(1, 2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(DimGray).
			Width(10)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(BrickYellow)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(BrickYellow)
)

// Filter styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(BrickYellow).
				Bold(true)
)

// SpinnerFrames are used by plain terminal progress output outside Bubble Tea
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Truncate shortens s to width display cells, ending with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
