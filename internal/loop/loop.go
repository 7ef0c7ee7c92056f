// Package loop runs a practice table in the local terminal: a private game
// server plus one client, wired the same way SSH sessions are.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/airhockey/internal/draw"
	"github.com/tomz197/airhockey/internal/loop/client"
	"github.com/tomz197/airhockey/internal/loop/server"
)

// Options configures a local game.
type Options struct {
	Username     string
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc
}

// Run plays on a private table until the player quits. It blocks.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gs := server.NewServer(logger)
	go gs.Run(ctx)

	c := client.NewClient(gs, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
	})
	if err := c.Run(); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	return nil
}
