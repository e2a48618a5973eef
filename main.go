package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tphakala/inat-gallery/cmd"
	"github.com/tphakala/inat-gallery/internal/buildinfo"
	"github.com/tphakala/inat-gallery/internal/conf"
)

// Set with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   string
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := cmd.RootCommand(&conf.Settings{}, buildinfo.NewContext(version, buildDate))
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
