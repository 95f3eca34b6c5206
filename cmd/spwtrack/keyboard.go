package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/abrezinsky/spwtrack/internal/app"
	"github.com/abrezinsky/spwtrack/internal/browser"
	"github.com/abrezinsky/spwtrack/internal/logger"
)

// In raw mode the terminal does not translate \n, so lines end in \r\n
const rawNewline = "\r\n"

// crlfWriter keeps log lines aligned while the terminal is in raw mode
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte(rawNewline))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// stdinIsTerminal reports whether keyboard shortcuts can be read
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

type keyboard struct {
	log  *logger.SlogLogger
	app  *app.App
	url  string
	quit context.CancelFunc
}

// listen reads single keystrokes from a terminal stdin until ctx ends.
// It returns immediately when stdin is not a terminal.
func (k *keyboard) listen(ctx context.Context) {
	if !stdinIsTerminal() {
		return
	}
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		k.log.Debug("Keyboard shortcuts unavailable", "error", err)
		return
	}
	restore := func() { term.Restore(fd, oldState) }
	defer restore()

	keys := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(keys)
				return
			}
			if n == 1 {
				keys <- buf[0]
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-keys:
			if !ok {
				return
			}
			if k.handle(ctx, b) {
				restore()
				k.quit()
				return
			}
		}
	}
}

// handle runs the action for one key and reports whether to quit
func (k *keyboard) handle(ctx context.Context, b byte) bool {
	switch strings.ToLower(string(b)) {
	case "o":
		fmt.Printf("%sOpening dashboard in browser...%s%s", cyan, reset, rawNewline)
		if err := browser.Open(k.url); err != nil {
			fmt.Printf("%sError opening browser: %v%s%s", red, err, reset, rawNewline)
		}
	case "h":
		if k.log.IsHTTPLoggingEnabled() {
			k.log.DisableHTTPLogging()
			fmt.Printf("%sHTTP logging disabled%s%s", yellow, reset, rawNewline)
		} else {
			k.log.EnableHTTPLogging()
			fmt.Printf("%sHTTP logging enabled%s%s", green, reset, rawNewline)
		}
	case "l":
		level := cycleLogLevel(k.log)
		fmt.Printf("%sLog level: %s%s%s%s", green, yellow, level, reset, rawNewline)
	case "r":
		rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		n, err := k.app.ResetRoutines(rctx)
		cancel()
		if err != nil {
			fmt.Printf("%sRoutine reset failed: %v%s%s", red, err, reset, rawNewline)
		} else {
			fmt.Printf("%sRoutines cleared for %d leaders%s%s", green, n, reset, rawNewline)
		}
	case "?":
		printKeyboardHelp(rawNewline)
	case "q", "\x03": // Ctrl+C arrives as a byte in raw mode
		fmt.Printf("%sShutting down server...%s%s", yellow, reset, rawNewline)
		return true
	}
	return false
}
