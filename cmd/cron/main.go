package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/justsurfingit/jobtrack/internal/config"
	"github.com/justsurfingit/jobtrack/internal/logger"
	"github.com/justsurfingit/jobtrack/internal/trigger"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.Environment)
	if err := cfg.ValidateTrigger(); err != nil {
		logger.Log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.WithFields(logrus.Fields{
		"timeout":     cfg.TriggerTimeout.String(),
		"max_per_run": cfg.MaxRemindersPerRun(),
	}).Info("Reminder trigger limits")

	scheduler := trigger.NewScheduler(trigger.NewClient(cfg.TriggerURL, cfg.CronSecret), cfg.TriggerTimeout)
	if err := scheduler.Start(cfg.CronSpec); err != nil {
		logger.Log.Fatal(err)
	}

	<-ctx.Done()
	logger.Log.Info("Stopping reminder trigger...")
	scheduler.Stop()
}
