package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/nhle/tempmail-watcher/internal/model"
	"github.com/nhle/tempmail-watcher/internal/store"
	"github.com/nhle/tempmail-watcher/internal/theme"
	"github.com/nhle/tempmail-watcher/internal/ui/history"
	"github.com/nhle/tempmail-watcher/internal/ui/menu"
)

// openHistory opens the history database with the configured entry cap.
func openHistory() (*store.Store, *model.AppConfig, error) {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(model.DefaultHistoryPath(), cfg.MaxHistoryEntries)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

// History launches the interactive browser over saved messages.
func History() int {
	st, _, err := openHistory()
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}
	defer st.Close()

	entries, err := st.ListMessages(context.Background(), 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}
	if len(entries) == 0 {
		fmt.Println(theme.WarnStyle.Render("No message history found."))
		return 0
	}

	if err := history.Run(entries); err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}
	return 0
}

// Export writes the saved messages to a JSON file.
func Export(path string) int {
	if path == "" {
		path = "email_export.json"
	}

	st, _, err := openHistory()
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}
	defer st.Close()

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}
	defer f.Close()

	count, err := st.ExportJSON(context.Background(), f)
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}

	fmt.Println(theme.SuccessStyle.Render(
		fmt.Sprintf("Exported %d messages to %s", count, path),
	))
	return 0
}

// Clear wipes the message history after confirmation.
func Clear() int {
	st, _, err := openHistory()
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}
	defer st.Close()

	count, err := st.CountMessages(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}
	if count == 0 {
		fmt.Println(theme.WarnStyle.Render("No message history to clear."))
		return 0
	}

	confirmed, err := menu.ConfirmClear(count)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 0
		}
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}
	if !confirmed {
		fmt.Println(theme.HelpStyle.Render("Operation cancelled."))
		return 0
	}

	if err := st.Clear(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}

	fmt.Println(theme.SuccessStyle.Render("Message history cleared."))
	return 0
}
