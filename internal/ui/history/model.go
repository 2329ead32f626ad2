// Package history implements the interactive browser over previously
// received messages.
package history

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tempmail-watcher/internal/sink"
	"github.com/nhle/tempmail-watcher/internal/store"
	"github.com/nhle/tempmail-watcher/internal/theme"
)

// item wraps a history entry for the bubbles list.
type item struct {
	entry store.HistoryEntry
}

func (i item) Title() string {
	if i.entry.Message.Subject == "" {
		return "(no subject)"
	}
	return i.entry.Message.Subject
}

func (i item) Description() string {
	from := i.entry.Message.From
	if from == "" {
		from = "(unknown)"
	}
	return fmt.Sprintf("%s · %s · %s",
		from,
		i.entry.Message.Provider,
		i.entry.ReceivedAt.Local().Format("2006-01-02 15:04"),
	)
}

func (i item) FilterValue() string {
	return i.entry.Message.Subject + " " + i.entry.Message.From
}

// Model is the Bubble Tea model for the history browser. It has two modes:
// the message list and a single-message detail view.
type Model struct {
	list     list.Model
	detail   *store.HistoryEntry
	width    int
	height   int
	quitting bool
}

// New creates a browser over the given entries (expected newest first).
func New(entries []store.HistoryEntry) Model {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = item{entry: e}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(theme.ColorCyan).
		BorderLeftForeground(theme.ColorCyan)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(theme.ColorGray).
		BorderLeftForeground(theme.ColorCyan)

	l := list.New(items, delegate, 0, 0)
	l.Title = "Message History"
	l.Styles.Title = theme.TitleStyle
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view")),
		}
	}

	return Model{list: l}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		// Detail view: any dismissal key returns to the list.
		if m.detail != nil {
			switch msg.String() {
			case "esc", "q", "enter", "backspace":
				m.detail = nil
				return m, nil
			case "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				entry := it.entry
				m.detail = &entry
			}
			return m, nil
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.detail != nil {
		received := theme.HelpStyle.Render(fmt.Sprintf(
			"received %s at %s · esc to go back",
			m.detail.ReceivedAt.Local().Format("2006-01-02 15:04:05"),
			m.detail.Message.Address,
		))
		return lipgloss.JoinVertical(lipgloss.Left,
			sink.RenderRich(m.detail.Message),
			received,
		)
	}

	return m.list.View()
}

// Run launches the browser and blocks until the user quits it.
func Run(entries []store.HistoryEntry) error {
	p := tea.NewProgram(New(entries), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
