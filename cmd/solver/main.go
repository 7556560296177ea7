// Package main probes a registered protocol with the default argument
// sets until one confirms, recording every attempt. A run report is
// written when -report is set.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"algorand-defi-lab/internal/config"
	"algorand-defi-lab/internal/node"
	"algorand-defi-lab/internal/observability"
	"algorand-defi-lab/internal/orchestrator"
	"algorand-defi-lab/internal/registry"
	"algorand-defi-lab/internal/report"
	"algorand-defi-lab/internal/solver"
	"algorand-defi-lab/internal/storage"
	chstore "algorand-defi-lab/internal/storage/clickhouse"
	"algorand-defi-lab/internal/storage/memory"
	"algorand-defi-lab/internal/storage/migrations"
	"algorand-defi-lab/internal/submit"
	"algorand-defi-lab/internal/wallet"
)

func main() {
	protocolKey := flag.String("protocol", "", "Registry key of the protocol to probe")
	guardPC := flag.Uint64("guard-pc", solver.DefaultGuardPC, "Known entry-guard program counter")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse DSN for probe attempts (in-memory when empty)")
	reportPath := flag.String("report", "", "Write a JSON run report to this path")
	yes := flag.Bool("yes", false, "Skip the interactive EXECUTE confirmation")
	flag.Parse()

	logger := log.New(os.Stdout, "[solver] ", log.LstdFlags|log.Lshortfile)

	if *protocolKey == "" {
		logger.Fatal("-protocol is required")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("Config: %v", err)
	}

	protocol, err := registry.Default().Get(*protocolKey)
	if err != nil {
		logger.Fatalf("Registry: %v", err)
	}

	w, err := wallet.Load(cfg.WalletFile)
	if err != nil {
		logger.Fatalf("Wallet: %v", err)
	}

	client, err := node.Dial(cfg.AlgodAddress, cfg.AlgodToken, node.WithMaxRetries(cfg.MaxRetries))
	if err != nil {
		logger.Fatalf("Node: %v", err)
	}

	ctx := context.Background()

	probeStore, cleanup, err := openProbeStore(ctx, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("Storage: %v", err)
	}
	defer cleanup()

	preflight := orchestrator.New(orchestrator.Options{
		Client:          client,
		Address:         w.Address.String(),
		MinBalanceMicro: cfg.MinBalanceMicro,
		Protocols:       registry.Default().List(),
		Logger:          logger,
	})
	checks, err := preflight.Run(ctx)
	if err != nil {
		logger.Fatalf("Preflight: %v", err)
	}
	if !checks.Healthy() {
		logger.Fatal("Preflight checks failed, not submitting")
	}

	argSets := solver.DefaultArgSets()
	logger.Printf("Probing %s (app %d) with %d argument sets", protocol.Name, protocol.AppID, len(argSets))

	if !*yes && !confirmExecution(logger) {
		logger.Println("Aborted")
		return
	}

	submitter := submit.NewSubmitter(client, w.PrivateKey, cfg.PollInterval, cfg.ConfirmTimeout)
	s := solver.New(solver.Options{
		Client:    client,
		Submitter: submitter,
		Sender:    w.Address,
		Store:     probeStore,
		GuardPC:   *guardPC,
		Logger:    logger,
	})

	started := time.Now().UnixMilli()
	result, err := s.Run(ctx, protocol.AppID, argSets)
	if err != nil {
		logger.Fatalf("Solver: %v", err)
	}

	for _, attempt := range result.Attempts {
		observability.RecordProbeAttempt(string(attempt.Class))
	}

	logger.Printf("Attempts: %d, progressed past guard: %d", len(result.Attempts), result.Progressed)
	if result.Solved != nil {
		logger.Printf("SOLVED: arg set %q confirmed in round %d (txid %s)",
			result.Solved.ArgSetName, result.Solved.ConfirmedRound, result.Solved.TxID)
	} else {
		logger.Println("No argument set confirmed")
	}

	if *reportPath != "" {
		gen := report.NewGenerator(memory.NewOperationStore(), probeStore)
		r, err := gen.Generate(ctx, cfg.Network, w.Address.String(), started, time.Now().UnixMilli())
		if err != nil {
			logger.Fatalf("Report: %v", err)
		}
		if err := report.WriteJSON(*reportPath, r); err != nil {
			logger.Fatalf("Report: %v", err)
		}
		logger.Printf("Wrote run report to %s", *reportPath)
	}
}

// openProbeStore returns a clickhouse-backed store when a DSN is given,
// an in-memory one otherwise.
func openProbeStore(ctx context.Context, dsn string) (storage.ProbeStore, func(), error) {
	if dsn == "" {
		return memory.NewProbeStore(), func() {}, nil
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}
	return chstore.NewProbeStore(conn), func() { conn.Close() }, nil
}

// confirmExecution requires the operator to type EXECUTE before any
// probe leaves the machine.
func confirmExecution(logger *log.Logger) bool {
	fmt.Print("Type EXECUTE to start probing: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	if strings.TrimSpace(scanner.Text()) != "EXECUTE" {
		logger.Println("Confirmation did not match")
		return false
	}
	return true
}
