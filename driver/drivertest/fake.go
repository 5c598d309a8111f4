// Package drivertest provides in-memory stand-ins for the ledger's pgx pool
// and transactions.
package drivertest

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Exec is one recorded statement.
type Exec struct {
	SQL  string
	Args []any
}

// Tx records statements. Methods other than Exec, Commit and Rollback panic.
type Tx struct {
	pgx.Tx

	ExecErr    error
	CommitErr  error
	Execs      []Exec
	Committed  bool
	RolledBack bool
}

func (tx *Tx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.Execs = append(tx.Execs, Exec{SQL: sql, Args: args})
	if tx.ExecErr != nil {
		return pgconn.CommandTag{}, tx.ExecErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *Tx) Commit(context.Context) error {
	if tx.CommitErr != nil {
		return tx.CommitErr
	}
	tx.Committed = true
	return nil
}

func (tx *Tx) Rollback(context.Context) error {
	tx.RolledBack = true
	return nil
}

// Pool hands out a fresh Tx per Begin, configured by NewTx when set.
type Pool struct {
	mu       sync.Mutex
	BeginErr error
	ExecErr  error
	NewTx    func() *Tx
	Txs      []*Tx
	Execs    []Exec
	Closed   bool
}

func (p *Pool) Begin(context.Context) (pgx.Tx, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.BeginErr != nil {
		return nil, p.BeginErr
	}

	tx := &Tx{}
	if p.NewTx != nil {
		tx = p.NewTx()
	}
	p.Txs = append(p.Txs, tx)

	return tx, nil
}

func (p *Pool) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Execs = append(p.Execs, Exec{SQL: sql, Args: args})
	if p.ExecErr != nil {
		return pgconn.CommandTag{}, p.ExecErr
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
}
