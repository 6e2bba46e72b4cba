package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/customer-onboarding/internal/core/events"
	"github.com/frahmantamala/customer-onboarding/internal/docstore"
	"github.com/frahmantamala/customer-onboarding/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for various services",
	Long:  `Start and manage worker pools for background jobs like document uploads and event handling.`,
}

// Document store worker command
var docstoreWorkerCmd = &cobra.Command{
	Use:   "docstore",
	Short: "Start document store worker pool",
	Long:  `Start the document store worker pool for processing queued attachment uploads`,
	Run: func(cmd *cobra.Command, args []string) {
		startDocstoreWorker()
	},
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus `,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
	storeURL     string
	storeAPIKey  string
)

func startDocstoreWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	// Use command line flags if provided, otherwise use config values
	storeConfig := docstore.Config{
		BaseURL:       getStringFlag(storeURL, config.DocumentStore.BaseURL),
		APIKey:        getStringFlag(storeAPIKey, config.DocumentStore.APIKey),
		UploadTimeout: config.DocumentStore.UploadTimeout,
		MaxWorkers:    getIntFlag(maxWorkers, config.DocumentStore.MaxWorkers),
		JobQueueSize:  getIntFlag(jobQueueSize, config.DocumentStore.JobQueueSize),
	}

	logger.Info("starting document store worker",
		"max_workers", storeConfig.MaxWorkers,
		"job_queue_size", storeConfig.JobQueueSize,
		"base_url", storeConfig.BaseURL)

	client := docstore.NewClient(storeConfig, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("document store worker is running. Press Ctrl+C to stop.")

	// wait for shutdown signal
	sig := <-sigChan
	logger.Info("received signal, shutting down document store worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		client.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		logger.Info("document store worker pool shutdown complete")
	case <-ctx.Done():
		logger.Warn("shutdown timeout reached, forcing exit")
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)

	eventBus.Subscribe("test.event", func(ctx context.Context, event events.Event) error {
		logger.Info("received test event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	logger.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	logger.Info("received signal, shutting down event bus", "signal", sig)
	logger.Info("event bus shutdown complete")
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	docstoreWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	docstoreWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	docstoreWorkerCmd.Flags().StringVar(&storeURL, "base-url", "", "Document store base URL (overrides config)")
	docstoreWorkerCmd.Flags().StringVar(&storeAPIKey, "api-key", "", "Document store API key (overrides config)")

	workerCmd.AddCommand(docstoreWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
