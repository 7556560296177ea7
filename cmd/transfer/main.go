// Package main submits a payment or ASA transfer and waits for its
// terminal state. Every submission is appended to the operation log.
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
	"algorand-defi-lab/internal/node"
	"algorand-defi-lab/internal/observability"
	"algorand-defi-lab/internal/storage"
	"algorand-defi-lab/internal/storage/memory"
	"algorand-defi-lab/internal/storage/migrations"
	pgstore "algorand-defi-lab/internal/storage/postgres"
	"algorand-defi-lab/internal/submit"
	"algorand-defi-lab/internal/wallet"
)

func main() {
	to := flag.String("to", "", "Receiver address")
	amount := flag.Uint64("amount", 0, "Amount in microalgos (or ASA base units with -asset)")
	asset := flag.Uint64("asset", 0, "ASA ID for an asset transfer, 0 for native ALGO")
	note := flag.String("note", "", "Transaction note")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL DSN for the operation log (in-memory when empty)")
	yes := flag.Bool("yes", false, "Skip the interactive EXECUTE confirmation")
	flag.Parse()

	logger := log.New(os.Stdout, "[transfer] ", log.LstdFlags|log.Lshortfile)

	if *to == "" || *amount == 0 {
		logger.Fatal("Both -to and -amount are required")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("Config: %v", err)
	}

	w, err := wallet.Load(cfg.WalletFile)
	if err != nil {
		logger.Fatalf("Wallet: %v", err)
	}
	logger.Printf("Loaded wallet %s", w.Address)

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

	// The fee reserve stays untouched on top of the balance floor.
	required := *amount + cfg.FeeReserveMicro
	if required < cfg.MinBalanceMicro {
		required = cfg.MinBalanceMicro
	}
	balance, err := submit.CheckBalance(ctx, client, w.Address.String(), required)
	if err != nil {
		observability.RecordBalanceGuardTrip()
		logger.Fatalf("Refusing to submit: %v", err)
	}
	observability.UpdateWalletBalance(balance)
	logger.Printf("Balance %d microalgos, sending %d", balance, *amount)

	if !*yes && !confirmExecution(logger) {
		logger.Println("Aborted")
		return
	}

	sp, err := client.SuggestedParams(ctx)
	if err != nil {
		logger.Fatalf("Suggested params: %v", err)
	}

	opType := domain.OpPayment
	txn, err := submit.BuildPayment(sp, w.Address.String(), *to, *amount, []byte(*note))
	if *asset != 0 {
		opType = domain.OpAssetTransfer
		txn, err = submit.BuildAssetTransfer(sp, w.Address.String(), *to, *amount, *asset, []byte(*note))
	}
	if err != nil {
		logger.Fatalf("Build transaction: %v", err)
	}

	submitter := submit.NewSubmitter(client, w.PrivateKey, cfg.PollInterval, cfg.ConfirmTimeout)
	submittedAt := time.Now().UnixMilli()
	observability.RecordSubmission(string(opType))

	res, err := submitter.Run(ctx, submit.NewRequest(txn))
	if err != nil {
		logger.Fatalf("Submit: %v", err)
	}
	observability.RecordOutcome(string(opType), string(res.Outcome), res.FeeMicro)

	record := &domain.OperationRecord{
		OperationID: idhash.ComputeOperationID(w.Address.String(), string(opType), 0, *to, *amount, submittedAt),
		Type:        opType,
		Sender:      w.Address.String(),
		Receiver:    *to,
		AmountMicro: *amount,
		AssetID:     *asset,
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
		logger.Printf("Confirmed in round %d (txid %s, fee %d)", res.Round, res.TxID, res.FeeMicro)
	case domain.OutcomeRejected:
		logger.Fatalf("Rejected: %s (txid %s)", res.PoolError, res.TxID)
	case domain.OutcomeTimedOut:
		logger.Fatalf("No terminal state within %s (txid %s)", cfg.ConfirmTimeout, res.TxID)
	}
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
