// Package main submits an application call against a registered
// protocol. Rejections are decoded down to the failing region of the
// approval program.
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
	"algorand-defi-lab/internal/domain"
	"algorand-defi-lab/internal/idhash"
	"algorand-defi-lab/internal/inspect"
	"algorand-defi-lab/internal/node"
	"algorand-defi-lab/internal/observability"
	"algorand-defi-lab/internal/registry"
	"algorand-defi-lab/internal/storage"
	"algorand-defi-lab/internal/storage/memory"
	"algorand-defi-lab/internal/storage/migrations"
	pgstore "algorand-defi-lab/internal/storage/postgres"
	"algorand-defi-lab/internal/submit"
	"algorand-defi-lab/internal/wallet"
)

const pcWindowRadius = 16

func main() {
	protocolKey := flag.String("protocol", "", "Registry key of the target protocol")
	method := flag.String("method", "supply", "Application method selector (first app arg)")
	onCompletion := flag.String("oncompletion", submit.OnCompletionNoOp, "On-completion action: noop, optin, or update")
	foreignAsset := flag.Uint64("foreign-asset", 0, "ASA ID to reference in the call, 0 for none")
	note := flag.String("note", "", "Transaction note")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL DSN for the operation log (in-memory when empty)")
	yes := flag.Bool("yes", false, "Skip the interactive EXECUTE confirmation")
	flag.Parse()

	logger := log.New(os.Stdout, "[trade] ", log.LstdFlags|log.Lshortfile)

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
	logger.Printf("Target %s (app %d)", protocol.Name, protocol.AppID)

	w, err := wallet.Load(cfg.WalletFile)
	if err != nil {
		logger.Fatalf("Wallet: %v", err)
	}

	client, err := node.Dial(cfg.AlgodAddress, cfg.AlgodToken, node.WithMaxRetries(cfg.MaxRetries))
	if err != nil {
		logger.Fatalf("Node: %v", err)
	}

	ctx := context.Background()

	opStore, cleanup, err := openOperationStore(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("Storage: %v", err)
	}
	defer cleanup()

	balance, err := submit.CheckBalance(ctx, client, w.Address.String(), cfg.MinBalanceMicro+cfg.FeeReserveMicro)
	if err != nil {
		observability.RecordBalanceGuardTrip()
		logger.Fatalf("Refusing to submit: %v", err)
	}
	observability.UpdateWalletBalance(balance)

	if !*yes && !confirmExecution(logger) {
		logger.Println("Aborted")
		return
	}

	sp, err := client.SuggestedParams(ctx)
	if err != nil {
		logger.Fatalf("Suggested params: %v", err)
	}

	spec := submit.AppCallSpec{
		AppID:        protocol.AppID,
		OnCompletion: *onCompletion,
		AppArgs:      [][]byte{[]byte(*method)},
		Note:         []byte(*note),
	}
	if *foreignAsset != 0 {
		spec.ForeignAssets = []uint64{*foreignAsset}
	}

	txn, err := submit.BuildAppCall(sp, w.Address, spec)
	if err != nil {
		logger.Fatalf("Build app call: %v", err)
	}

	submitter := submit.NewSubmitter(client, w.PrivateKey, cfg.PollInterval, cfg.ConfirmTimeout)
	submittedAt := time.Now().UnixMilli()
	observability.RecordSubmission(string(domain.OpAppCall))

	res, err := submitter.Run(ctx, submit.NewRequest(txn))
	if err != nil {
		logger.Fatalf("Submit: %v", err)
	}
	observability.RecordOutcome(string(domain.OpAppCall), string(res.Outcome), res.FeeMicro)

	record := &domain.OperationRecord{
		OperationID: idhash.ComputeOperationID(w.Address.String(), string(domain.OpAppCall), protocol.AppID, "", 0, submittedAt),
		ProtocolKey: protocol.Key,
		Type:        domain.OpAppCall,
		Sender:      w.Address.String(),
		AppID:       protocol.AppID,
		TxID:        res.TxID,
		Outcome:     res.Outcome,

		ConfirmedRound: res.Round,
		FeeMicro:       res.FeeMicro,
		PoolError:      res.PoolError,
		Note:           *note,
		SubmittedAt:    submittedAt,
	}
	if err := opStore.Insert(ctx, record); err != nil {
		logger.Printf("WARN: could not record operation: %v", err)
	}

	switch res.Outcome {
	case domain.OutcomeConfirmed:
		logger.Printf("Confirmed in round %d (txid %s)", res.Round, res.TxID)
	case domain.OutcomeRejected:
		logger.Printf("Rejected: %s", res.PoolError)
		explainRejection(ctx, logger, client, protocol.AppID, res.PoolError)
		os.Exit(1)
	case domain.OutcomeTimedOut:
		logger.Fatalf("No terminal state within %s (txid %s)", cfg.ConfirmTimeout, res.TxID)
	}
}

// explainRejection prints the approval-program bytes around the failed
// program counter, when the pool error names one.
func explainRejection(ctx context.Context, logger *log.Logger, client node.Client, appID uint64, poolError string) {
	pc, ok := inspect.ParseFailedPC(poolError)
	if !ok {
		return
	}
	window, err := inspect.New(client).FailedRegion(ctx, appID, pc, pcWindowRadius)
	if err != nil {
		logger.Printf("Could not fetch approval program: %v", err)
		return
	}
	logger.Printf("Approval program is %d bytes, failed at pc=%d:", window.ProgramSize, pc)
	logger.Printf("  %s", window.Hex())
}

// openOperationStore returns a postgres-backed store when a DSN is
// given, an in-memory one otherwise.
func openOperationStore(ctx context.Context, dsn string) (storage.OperationStore, func(), error) {
	if dsn == "" {
		return memory.NewOperationStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("apply migrations: %w", err)
	}
	return pgstore.NewOperationStore(pool), pool.Close, nil
}

// confirmExecution requires the operator to type EXECUTE before a
// transaction leaves the machine.
func confirmExecution(logger *log.Logger) bool {
	fmt.Print("Type EXECUTE to submit: ")
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
