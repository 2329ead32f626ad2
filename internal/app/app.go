// Package app wires the configuration, provider, sinks and watcher together
// and maps run outcomes onto process exit codes.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"go.uber.org/zap"

	"github.com/nhle/tempmail-watcher/internal/credential"
	"github.com/nhle/tempmail-watcher/internal/logger"
	"github.com/nhle/tempmail-watcher/internal/model"
	"github.com/nhle/tempmail-watcher/internal/provider"
	"github.com/nhle/tempmail-watcher/internal/sink"
	"github.com/nhle/tempmail-watcher/internal/store"
	"github.com/nhle/tempmail-watcher/internal/theme"
	"github.com/nhle/tempmail-watcher/internal/ui/menu"
	"github.com/nhle/tempmail-watcher/internal/watch"
)

// Options carries the command-line selections into a run. Zero values mean
// "use the configured default".
type Options struct {
	// Provider names the service to watch; empty triggers the interactive menu.
	Provider string

	// PollIntervalSec overrides the configured poll interval when positive.
	PollIntervalSec int

	// Rush selects tempmail.lol's faster generation endpoint.
	Rush bool

	// DisplayMode overrides the configured display mode when non-empty.
	DisplayMode string

	// NoSave disables the history sink for this run when true.
	NoSave bool

	// Resume reuses the last saved session for the provider instead of
	// provisioning a fresh inbox.
	Resume bool

	// Debug lowers the log level and enables full error detail.
	Debug bool
}

const banner = `
 _____                    __  __       _ _
|_   _|__ _ __ ___  _ __ |  \/  | __ _(_) |
  | |/ _ \ '_ ` + "`" + ` _ \| '_ \| |\/| |/ _` + "`" + ` | | |
  | |  __/ | | | | | |_) | |  | | (_| | | |
  |_|\___|_| |_| |_| .__/|_|  |_|\__,_|_|_|
                   |_|              watcher
`

func printBanner() {
	fmt.Println(theme.BannerStyle.Render(banner))
}

// Watch is the main entry: provision an inbox and poll it until the session
// expires or the user interrupts. The returned value is the process exit code.
func Watch(opts Options) int {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}

	log, err := logger.New(cfg.Log, opts.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}
	defer log.Sync()

	// Fold command-line selections back into the config so they become the
	// defaults for the next run, matching the interactive flow.
	if opts.PollIntervalSec > 0 {
		cfg.PollIntervalSec = opts.PollIntervalSec
	}
	if opts.DisplayMode != "" {
		cfg.DisplayMode = opts.DisplayMode
	}
	if opts.NoSave {
		cfg.SaveMessages = false
	}

	name := model.ProviderType(opts.Provider)
	printBanner()

	if opts.Provider == "" {
		sel, err := menu.Run(cfg)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return 0
			}
			fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
			return 1
		}
		name = sel.Provider
		cfg.PollIntervalSec = sel.PollIntervalSec
	}

	cfg.DefaultProvider = string(name)
	if err := model.SaveConfig(model.DefaultConfigPath(), cfg); err != nil {
		log.Warn("saving config", zap.Error(err))
	}

	p, err := provider.New(name, provider.Options{Rush: opts.Rush})
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sinks := watch.MultiSink{sink.NewConsole(os.Stdout, cfg.DisplayMode)}
	if cfg.SaveMessages {
		st, err := store.Open(model.DefaultHistoryPath(), cfg.MaxHistoryEntries)
		if err != nil {
			fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(err.Error()))
			return 1
		}
		defer st.Close()
		sinks = append(sinks, sink.NewHistory(st))
	}

	interval := time.Duration(cfg.PollIntervalSec) * time.Second
	watcher := watch.New(p, sinks, interval, log)

	resumed := false
	if opts.Resume {
		if inbox, err := credential.LoadSession(name); err == nil {
			if err := watcher.Restore(inbox); err == nil {
				resumed = true
			} else {
				log.Warn("restoring saved session", zap.Error(err))
			}
		} else {
			log.Warn("no saved session to resume", zap.Error(err))
		}
	}

	if !resumed {
		var provErr error
		err := spinner.New().
			Title(fmt.Sprintf("Setting up %s account...", name)).
			Context(ctx).
			ActionWithErr(func(ctx context.Context) error {
				_, provErr = watcher.Provision(ctx)
				return provErr
			}).
			Run()
		if provErr == nil {
			provErr = err
		}
		if provErr != nil {
			if ctx.Err() != nil {
				fmt.Println(theme.HelpStyle.Render("Stopped by user. Goodbye!"))
				return 0
			}
			reportProvisionError(log, provErr, opts.Debug)
			return 1
		}

		if err := credential.SaveSession(name, watcher.Inbox()); err != nil {
			log.Debug("saving session", zap.Error(err))
		}
	}

	inbox := watcher.Inbox()
	fmt.Println(theme.SuccessStyle.Render("✓") + " Email address ready: " +
		theme.FromStyle.Render(inbox.Address))
	fmt.Println(theme.HelpStyle.Render(fmt.Sprintf(
		"Polling every %ds for new messages. Press Ctrl+C to stop.",
		cfg.PollIntervalSec,
	)))
	fmt.Println()

	if err := watcher.Poll(ctx); err != nil {
		if provider.IsSessionExpired(err) {
			fmt.Println(theme.WarnStyle.Render("Session expired; stopping."))
			if err := credential.DeleteSession(name); err != nil {
				log.Debug("deleting expired session", zap.Error(err))
			}
			return 0
		}
		reportUnexpectedError(log, err, opts.Debug)
		return 1
	}

	fmt.Println(theme.HelpStyle.Render("Stopped listening; goodbye!"))
	return 0
}

// reportProvisionError prints a user-facing explanation for a failed signup.
func reportProvisionError(log *zap.Logger, err error, debug bool) {
	switch {
	case provider.IsNetworkError(err):
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(
			"Failed to connect to the service. Please check your internet connection.",
		))
	case provider.IsAPIError(err):
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render(
			"The service API returned an error. It might be down or have changed.",
		))
	default:
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render("An unexpected error occurred."))
	}

	if debug {
		log.Error("provisioning failed", zap.Error(err))
	} else {
		fmt.Fprintln(os.Stderr, theme.HelpStyle.Render(err.Error()))
	}
}

// reportUnexpectedError prints a polling failure that escaped the
// per-iteration handling.
func reportUnexpectedError(log *zap.Logger, err error, debug bool) {
	fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render("An unexpected error occurred."))
	if debug {
		log.Error("run failed", zap.Error(err))
	} else {
		fmt.Fprintln(os.Stderr, theme.HelpStyle.Render(err.Error()))
	}
}
