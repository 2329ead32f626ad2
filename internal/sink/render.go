package sink

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tempmail-watcher/internal/model"
	"github.com/nhle/tempmail-watcher/internal/theme"
)

// Timestamp layouts the providers have been observed to use.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// FormatTimestamp normalizes a provider-native timestamp for display.
// Unparseable values are returned verbatim rather than dropped.
func FormatTimestamp(ts string) string {
	if ts == "" {
		return "unknown time"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return ts
}

// RenderRich renders a message as a styled panel. Shared by the live
// console output and the history browser's detail view.
func RenderRich(msg model.Message) string {
	var header []string
	header = append(header, fmt.Sprintf("%s %s",
		theme.LabelStyle.Render("From:"),
		theme.FromStyle.Render(orDefault(msg.From, "(unknown)")),
	))
	header = append(header, fmt.Sprintf("%s %s",
		theme.LabelStyle.Render("Subject:"),
		theme.SubjectStyle.Render(orDefault(msg.Subject, "(no subject)")),
	))
	if msg.Date != "" {
		header = append(header, fmt.Sprintf("%s %s",
			theme.LabelStyle.Render("Date:"),
			theme.DateStyle.Render(FormatTimestamp(msg.Date)),
		))
	}

	body := strings.TrimSpace(msg.Body)
	if body == "" {
		body = "(no body)"
	}

	title := theme.TitleStyle.Render(fmt.Sprintf("New Email [%s]", msg.Provider))
	content := strings.Join(header, "\n") + "\n\n" + body

	return lipgloss.JoinVertical(lipgloss.Left, title, theme.PanelStyle.Render(content))
}

// RenderPlain renders a message as an unstyled text block.
func RenderPlain(msg model.Message) string {
	var b strings.Builder

	b.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&b, "[%s] New Email\n", msg.Provider)
	fmt.Fprintf(&b, "From:    %s\n", orDefault(msg.From, "(unknown)"))
	fmt.Fprintf(&b, "Subject: %s\n", orDefault(msg.Subject, "(no subject)"))
	if msg.Date != "" {
		fmt.Fprintf(&b, "Date:    %s\n", FormatTimestamp(msg.Date))
	}
	b.WriteString("\n")

	body := strings.TrimSpace(msg.Body)
	if body == "" {
		body = "(no body)"
	}
	b.WriteString(body + "\n")

	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
