// Command tempmail-watcher provisions a disposable email address from a
// temporary-mail service and prints incoming messages as they arrive.
package main

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/nhle/tempmail-watcher/internal/app"
	"github.com/nhle/tempmail-watcher/internal/model"
	"github.com/nhle/tempmail-watcher/internal/provider"
)

const version = "1.0.0"

func usage() {
	names := make([]string, 0, len(provider.Names()))
	for _, n := range provider.Names() {
		names = append(names, string(n))
	}

	fmt.Fprintf(os.Stderr, `tempmail-watcher - watch a disposable email inbox from the terminal

Usage:
  tempmail-watcher [provider] [flags]    watch an inbox (no provider: interactive menu)
  tempmail-watcher history               browse saved messages
  tempmail-watcher export [file]         export saved messages to JSON
  tempmail-watcher clear                 delete saved messages

Providers:
  %s

Flags:
%s`, strings.Join(names, ", "), flag.CommandLine.FlagUsages())
}

func main() {
	var (
		poll        = flag.IntP("poll", "p", 0, "polling interval in seconds (default from config)")
		rush        = flag.BoolP("rush", "r", false, "use rush mode for tempmail.lol (faster address generation)")
		displayMode = flag.StringP("display", "d", "", `display mode: "rich" or "plain" (default from config)`)
		noSave      = flag.BoolP("no-save", "n", false, "don't save received messages to history")
		resume      = flag.Bool("resume", false, "reuse the last saved session for the provider")
		debug       = flag.Bool("debug", false, "log full error detail")
		showVersion = flag.BoolP("version", "v", false, "print version and exit")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println("tempmail-watcher v" + version)
		return
	}

	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "history":
			os.Exit(app.History())
		case "export":
			path := ""
			if len(args) > 1 {
				path = args[1]
			}
			os.Exit(app.Export(path))
		case "clear":
			os.Exit(app.Clear())
		}
	}

	providerName := ""
	if len(args) > 0 {
		if _, err := provider.New(model.ProviderType(args[0]), provider.Options{}); err != nil {
			fmt.Fprintf(os.Stderr, "unknown provider %q\n\n", args[0])
			usage()
			os.Exit(2)
		}
		providerName = args[0]
	}

	if *displayMode != "" && *displayMode != model.DisplayRich && *displayMode != model.DisplayPlain {
		fmt.Fprintf(os.Stderr, "invalid display mode %q\n\n", *displayMode)
		usage()
		os.Exit(2)
	}

	os.Exit(app.Watch(app.Options{
		Provider:        providerName,
		PollIntervalSec: *poll,
		Rush:            *rush,
		DisplayMode:     *displayMode,
		NoSave:          *noSave,
		Resume:          *resume,
		Debug:           *debug,
	}))
}
