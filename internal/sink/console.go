// Package sink holds the destinations newly observed messages are emitted
// to: the terminal and the message history.
package sink

import (
	"context"
	"fmt"
	"io"

	"github.com/nhle/tempmail-watcher/internal/model"
)

// Console writes each message to a terminal in the configured display mode.
type Console struct {
	out  io.Writer
	mode string
}

// NewConsole creates a console sink writing to out. mode is one of
// model.DisplayRich or model.DisplayPlain; anything else falls back to rich.
func NewConsole(out io.Writer, mode string) *Console {
	if mode != model.DisplayPlain {
		mode = model.DisplayRich
	}
	return &Console{out: out, mode: mode}
}

// Emit renders and prints the message.
func (c *Console) Emit(_ context.Context, msg model.Message) error {
	var rendered string
	if c.mode == model.DisplayPlain {
		rendered = RenderPlain(msg)
	} else {
		rendered = RenderRich(msg)
	}

	if _, err := fmt.Fprintln(c.out, rendered); err != nil {
		return fmt.Errorf("writing message to console: %w", err)
	}
	return nil
}
