// Noise Synthesis and Denoise Evaluation Bench
// Author: Ervins Strauhmanis
// License: MIT
// Version: 1.0.0 - Six Noise Models x Five Denoise Filters

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"noise-bench/internal/pipeline"
)

const (
	AppName    = "Noise Bench"
	AppVersion = "1.0.0"
)

func main() {
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	flag.Parse()

	logger := initLogger(*debugMode)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
	}).Info("Starting " + AppName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := pipeline.NewRunner(pipeline.DefaultConfig(), logger).Run(ctx)
	if err != nil {
		logger.WithError(err).Error("Sweep aborted")
		os.Exit(1)
	}
	if err := report.Err(); err != nil {
		logger.WithFields(logrus.Fields{
			"written":  report.Written(),
			"failures": len(report.Failures),
		}).WithError(err).Error("Sweep finished with failures")
		os.Exit(1)
	}

	logger.WithField("written", report.Written()).Info("Sweep finished")
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
