package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorCyan    = lipgloss.AdaptiveColor{Dark: "#4DD0E1", Light: "#00838F"}
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// BannerStyle renders the startup banner.
var BannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorCyan)

// TitleStyle is used for panel titles and section headers.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorCyan)

// PanelStyle frames a rendered email.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorCyan)

// LabelStyle is used for the From/Subject/Date field labels.
var LabelStyle = lipgloss.NewStyle().Bold(true)

// FromStyle highlights the sender address.
var FromStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// SubjectStyle highlights the subject line.
var SubjectStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow)

// DateStyle highlights the receive timestamp.
var DateStyle = lipgloss.NewStyle().
	Foreground(ColorMagenta)

// SuccessStyle is used for confirmation lines.
var SuccessStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGreen)

// WarnStyle is used for non-fatal notices.
var WarnStyle = lipgloss.NewStyle().
	Foreground(ColorYellow)

// ErrorStyle is used for fatal error lines.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// HelpStyle is used for hints and secondary text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)
