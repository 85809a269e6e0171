package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/imspect/internal/config"
	"github.com/ironsheep/imspect/internal/imaging"
	"github.com/ironsheep/imspect/internal/logging"
	"github.com/ironsheep/imspect/internal/npy"
	"github.com/ironsheep/imspect/internal/transfer"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("imspect-send %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("imspect-send - open images in a new imspect viewer")
			fmt.Println()
			fmt.Println("Usage: imspect-send FILE...")
			fmt.Println()
			fmt.Println("FILE is a .npy uint8 array or a PNG, JPEG, GIF or WebP image.")
			fmt.Println("The files are copied to a temporary directory for the viewer.")
			fmt.Println("The viewer starts without standard streams unless IMSPECT_ATTACH")
			fmt.Println("is set, in which case it keeps this process's stdin and stdout")
			fmt.Println("for its session.")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMSPECT_VIEWER=imspect         Viewer executable")
			fmt.Println("  IMSPECT_HANDOFF_TIMEOUT=5s     Wait for the viewer to read its files")
			fmt.Println("  IMSPECT_ATTACH=true            Hand stdin/stdout/stderr to the viewer")
			fmt.Println("  IMSPECT_LOG_LEVEL=debug        Log level (debug, info, warn, error)")
			fmt.Println("  IMSPECT_LOG_FORMAT=json        Log format (text, json)")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "imspect-send: %v\n", err)
		os.Exit(2)
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "imspect-send: %v\n", err)
		os.Exit(2)
	}

	arrays, err := readArrays(os.Args[1:])
	if err != nil {
		logger.WithError(err).Error("Failed to read input")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sender := transfer.NewSender(cfg.Viewer, logger)
	sender.HandoffTimeout = cfg.HandoffTimeout
	if cfg.Attach {
		sender.Stdin, sender.Stdout, sender.Stderr = os.Stdin, os.Stdout, os.Stderr
	}

	if err := sender.Send(ctx, arrays...); err != nil {
		logger.WithError(err).WithField("viewer", cfg.Viewer).Error("Failed to hand images to viewer")
		stop()
		os.Exit(1)
	}
	logger.WithFields(logrus.Fields{
		"viewer": cfg.Viewer,
		"images": len(arrays),
	}).Debug("Images handed off")
}

// readArrays reads .npy files as-is and decodes every other file as an image.
func readArrays(paths []string) ([]npy.Array, error) {
	arrays := make([]npy.Array, 0, len(paths))
	for _, p := range paths {
		if strings.EqualFold(filepath.Ext(p), npy.Extension) {
			a, err := npy.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			arrays = append(arrays, a)
			continue
		}
		img, err := imaging.Load(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		arrays = append(arrays, transfer.ToArray(img))
	}
	return arrays, nil
}
