package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abrezinsky/spwtrack/internal/app"
	"github.com/abrezinsky/spwtrack/internal/config"
	"github.com/abrezinsky/spwtrack/internal/logger"
	"github.com/abrezinsky/spwtrack/internal/services"
	"github.com/abrezinsky/spwtrack/web"
)

// ANSI escape codes
const (
	clearLine = "\033[2K"
	moveUp    = "\033[%dA"
	reset     = "\033[0m"
	yellow    = "\033[33m"
	red       = "\033[31m"
	green     = "\033[32m"
	cyan      = "\033[36m"
	bold      = "\033[1m"
)

var version = "dev"

const bannerWidth = 62

// showBanner prints the logo, then fills a routine checklist bar unless
// animation is disabled
func showBanner(skipAnimation bool) {
	border := strings.Repeat("═", bannerWidth)
	logo := []string{
		"     ____  ______        __  _____               _          ",
		"    / ___||  _ \\ \\      / / |_   _| __ __ _  ___| | __      ",
		"    \\___ \\| |_) \\ \\ /\\ / /    | || '__/ _` |/ __| |/ /      ",
		"     ___) |  __/ \\ V  V /     | || | | (_| | (__|   <       ",
		"    |____/|_|     \\_/\\_/      |_||_|  \\__,_|\\___|_|\\_\\      ",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s%-*s%s║%s\n", cyan, yellow, bannerWidth, line, cyan, reset)
	}

	if skipAnimation {
		fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
		return
	}

	fmt.Printf("  %s╠%s╣%s\n", cyan, border, reset)
	const barWidth = bannerWidth - 16
	for step := 0; step <= barWidth; step += 2 {
		pct := step * 100 / barWidth
		bar := strings.Repeat("█", step) + strings.Repeat("░", barWidth-step)
		color := red
		switch {
		case pct >= 80:
			color = green
		case pct >= 60:
			color = yellow
		}
		fmt.Printf("%s  %s║%s  KAI %s%s%s %3d%%  %s║%s\n", clearLine, cyan, reset, color, bar, reset, pct, cyan, reset)
		if step < barWidth {
			fmt.Printf(moveUp, 1)
		}
		time.Sleep(25 * time.Millisecond)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) string {
	next := map[string]string{
		"DEBUG": "info",
		"INFO":  "warn",
		"WARN":  "error",
		"ERROR": "debug",
	}[appLog.GetLevel().String()]
	if next == "" {
		next = "info"
	}
	appLog.SetLevel(logger.ParseLevel(next))
	return next
}

func printKeyboardHelp(nl string) {
	fmt.Printf("%s%s%s  Keyboard Shortcuts:%s%s", nl, bold, green, reset, nl)
	fmt.Printf("    %so%s      - Open dashboard in browser%s", cyan, reset, nl)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging%s", cyan, reset, nl)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)%s", cyan, reset, nl)
	fmt.Printf("    %sr%s      - Reset daily routines%s", cyan, reset, nl)
	fmt.Printf("    %sq%s      - Quit server%s", cyan, reset, nl)
	fmt.Printf("    %s?%s      - Show this help%s%s", cyan, reset, nl, nl)
}

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.ShowVersion {
		fmt.Printf("spwtrack %s\n", version)
		os.Exit(0)
	}

	showBanner(cfg.NoAnimate)

	keys := !cfg.NoKeyboard && stdinIsTerminal()
	var output io.Writer = os.Stdout
	if keys {
		output = crlfWriter{w: os.Stdout}
	}
	appLog := logger.NewWithOptions(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		Output: output,
	})

	a, err := app.New(appLog, app.Options{
		DBPath:        cfg.DBPath,
		SeedPath:      cfg.SeedPath,
		ResetSchedule: cfg.ResetSchedule,
		Coaching: services.CoachingConfig{
			APIKey:          cfg.GeminiAPIKey,
			Model:           cfg.GeminiModel,
			FallbackEnabled: cfg.Fallback,
			FallbackDelay:   cfg.FallbackDelay,
		},
	}, web.GetTemplatesFS(), web.GetStaticFS())
	if err != nil {
		appLog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(cfg.Addr())
	}()

	dashboardURL := fmt.Sprintf("http://localhost:%d/", cfg.Port)
	if keys {
		printKeyboardHelp("\n")
		kb := &keyboard{log: appLog, app: a, url: dashboardURL, quit: stop}
		go kb.listen(ctx)
	} else if cfg.NoKeyboard {
		fmt.Printf("\n%sKeyboard shortcuts disabled (use -nokeyboard=false to enable)%s\n\n", yellow, reset)
	}

	select {
	case err := <-serverErr:
		if err != nil {
			appLog.Error("Server stopped", "error", err)
			a.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		appLog.Info("Shutting down")
	}
}
