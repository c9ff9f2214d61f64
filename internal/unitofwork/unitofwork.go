// Package unitofwork runs account and transaction repositories inside one database transaction.
package unitofwork

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/wallet-ledger/internal/accountrepo"
	"github.com/go-petr/wallet-ledger/internal/transactionrepo"
	"github.com/go-petr/wallet-ledger/internal/transactionservice"
	"github.com/go-petr/wallet-ledger/pkg/errorspkg"
)

// StorePGS hands out repositories bound to the connection pool and starts units of work.
type StorePGS struct {
	conn         *sql.DB
	accounts     *accountrepo.RepoPGS
	transactions *transactionrepo.RepoPGS
}

// NewStorePGS returns StorePGS over the given connection pool.
func NewStorePGS(conn *sql.DB) *StorePGS {
	return &StorePGS{
		conn:         conn,
		accounts:     accountrepo.NewRepoPGS(conn),
		transactions: transactionrepo.NewRepoPGS(conn),
	}
}

// Accounts returns the account repository working outside of any transaction.
func (s *StorePGS) Accounts() transactionservice.AccountRepo {
	return s.accounts
}

// Transactions returns the transaction repository working outside of any transaction.
func (s *StorePGS) Transactions() transactionservice.TransactionRepo {
	return s.transactions
}

// Begin starts a database transaction and returns the unit of work bound to it.
func (s *StorePGS) Begin(ctx context.Context) (transactionservice.UnitOfWork, error) {
	l := zerolog.Ctx(ctx)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return newUnit(tx), nil
}

// Unit is a unit of work backed by *sql.Tx.
type Unit struct {
	tx           *sql.Tx
	accounts     *accountrepo.RepoPGS
	transactions *transactionrepo.RepoPGS
	done         bool
}

func newUnit(tx *sql.Tx) *Unit {
	return &Unit{
		tx:           tx,
		accounts:     accountrepo.NewRepoPGS(tx),
		transactions: transactionrepo.NewRepoPGS(tx),
	}
}

// Accounts returns the account repository bound to the transaction.
func (u *Unit) Accounts() transactionservice.AccountRepo {
	return u.accounts
}

// Transactions returns the transaction repository bound to the transaction.
func (u *Unit) Transactions() transactionservice.TransactionRepo {
	return u.transactions
}

// Commit commits the transaction. A unit can be finished only once.
func (u *Unit) Commit() error {
	if u.done {
		return sql.ErrTxDone
	}

	u.done = true

	return u.tx.Commit()
}

// Rollback aborts the transaction unless it was already finished, in which case it does nothing.
func (u *Unit) Rollback() error {
	if u.done {
		return nil
	}

	u.done = true

	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}
