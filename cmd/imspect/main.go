package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/imspect/internal/config"
	"github.com/ironsheep/imspect/internal/logging"
	"github.com/ironsheep/imspect/internal/server"
	"github.com/ironsheep/imspect/internal/session"
	"github.com/ironsheep/imspect/internal/transfer"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("imspect %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("imspect - image inspection viewer")
			fmt.Println()
			fmt.Println("Usage: imspect IMAGE...")
			fmt.Println()
			fmt.Println("Each IMAGE is a .npy uint8 array of shape (H, W), (H, W, 1) or")
			fmt.Println("(H, W, 3), or any PNG, JPEG, GIF or WebP file.")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMSPECT_LOG_LEVEL=debug    Log level (debug, info, warn, error)")
			fmt.Println("  IMSPECT_LOG_FORMAT=json    Log format (text, json)")
			fmt.Println()
			fmt.Println("The session is served as JSON-RPC over stdin/stdout.")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "imspect: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr; stdout carries the session protocol
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imspect: %v\n", err)
		os.Exit(2)
	}
	logger.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("imspect starting")

	paths := os.Args[1:]
	images, err := transfer.Load(paths)
	if err != nil {
		logger.WithError(err).Error("Failed to load images")
		os.Exit(1)
	}
	if err := transfer.Acknowledge(paths, cfg.HandoffDir); err != nil {
		logger.WithError(err).Warn("Failed to acknowledge handed-off images")
	}
	logger.WithField("images", len(images)).Info("Session ready")

	srv := server.New(session.NewRegistry(images...), logger)
	if err := srv.Run(); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
}
