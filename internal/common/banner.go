package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// Version is set at build time with -ldflags "-X SIPAdvisor/internal/common.Version=...".
var Version = "dev"

// PrintBanner displays the service startup banner to stderr followed by the
// given key/value settings.
func PrintBanner(settings [][2]string, logger arbor.ILogger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 60
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	fmt.Fprintf(os.Stderr, "\n%s\n", hr)
	fmt.Fprintf(os.Stderr, "%s  SIPADVISOR %s%s\n", textColor, Version, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "%s  Fund signals & SIP projections%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "%s\n\n", hr)

	kvPad := 14
	event := logger.Info().Str("version", Version)
	for _, kv := range settings {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
		event = event.Str(strings.ToLower(strings.ReplaceAll(kv[0], " ", "_")), kv[1])
	}
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	event.Msg("Application started")
}

// PrintShutdownBanner displays the shutdown banner to stderr.
func PrintShutdownBanner(logger arbor.ILogger) {
	hr := banner.ColorCyan + strings.Repeat("═", 36) + banner.ColorReset
	fmt.Fprintf(os.Stderr, "\n%s\n%s  SIPADVISOR SHUTTING DOWN%s\n%s\n\n",
		hr, banner.ColorBold+banner.ColorWhite, banner.ColorReset, hr)
	logger.Info().Msg("Application shutting down")
}
