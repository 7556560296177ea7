// Package main watches node health, wallet balance, and registry state
// on an interval and exports the results as Prometheus metrics.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"algorand-defi-lab/internal/config"
	"algorand-defi-lab/internal/node"
	"algorand-defi-lab/internal/observability"
	"algorand-defi-lab/internal/orchestrator"
	"algorand-defi-lab/internal/registry"
	"algorand-defi-lab/internal/wallet"
)

func main() {
	interval := flag.Duration("interval", 30*time.Second, "Check interval")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	flag.Parse()

	logger := log.New(os.Stdout, "[monitor] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("Config: %v", err)
	}

	w, err := wallet.Load(cfg.WalletFile)
	if err != nil {
		logger.Fatalf("Wallet: %v", err)
	}

	client, err := node.Dial(cfg.AlgodAddress, cfg.AlgodToken, node.WithMaxRetries(cfg.MaxRetries))
	if err != nil {
		logger.Fatalf("Node: %v", err)
	}

	protocols, err := registry.Default().Filter(cfg.EnabledProtocols)
	if err != nil {
		logger.Fatalf("Registry: %v", err)
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	orch := orchestrator.New(orchestrator.Options{
		Client:          client,
		Address:         w.Address.String(),
		MinBalanceMicro: cfg.MinBalanceMicro,
		Protocols:       protocols,
		Logger:          logger,
	})

	logger.Printf("Watching %s on %s every %s", w.Address, cfg.Network, *interval)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		runChecks(ctx, logger, client, orch, w.Address.String())

		select {
		case <-ctx.Done():
			logger.Println("Stopped")
			return
		case <-ticker.C:
		}
	}
}

// runChecks executes one round of maintenance tasks and refreshes the
// health gauges.
func runChecks(ctx context.Context, logger *log.Logger, client node.Client, orch *orchestrator.Orchestrator, address string) {
	result, err := orch.Run(ctx)
	if err != nil {
		return // cancelled
	}

	if !result.Healthy() {
		logger.Println("WARN: one or more checks failed")
	}

	if status, err := client.Status(ctx); err == nil {
		observability.UpdateLastRound(status.LastRound)
	}
	if account, err := client.AccountInformation(ctx, address); err == nil {
		observability.UpdateWalletBalance(account.Amount)
	}
}
