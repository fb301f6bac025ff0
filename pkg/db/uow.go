package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type UOW struct {
	Conn Connection
	Tx   pgx.Tx
}

func (u *UOW) Begin() (pgx.Tx, error) {
	tx, err := u.Conn.BeginTx(context.Background(), pgx.TxOptions{DeferrableMode: pgx.Deferrable})
	if err != nil {
		return nil, fmt.Errorf("can't begin tx, %v", err)
	}
	u.Tx = tx
	return u.Tx, nil
}

func (u *UOW) GetTx() pgx.Tx {
	return u.Tx
}

func (u *UOW) Commit() error {
	if u.Tx == nil {
		return fmt.Errorf("transaction is not started yet")
	}
	return u.Tx.Commit(context.Background())
}

func (u *UOW) Rollback() error {
	if u.Tx == nil {
		return fmt.Errorf("transaction is not started yet")
	}
	return u.Tx.Rollback(context.Background())
}

// Finalize commits when *err is nil, rolls back otherwise. Meant for defer
// right after Begin, with the named error of the surrounding function.
func (u *UOW) Finalize(err *error) {
	if err != nil && *err != nil {
		_ = u.Rollback()
		return
	}
	if commitErr := u.Commit(); commitErr != nil && err != nil && *err == nil {
		*err = commitErr
	}
}

type UOWFactory struct {
	Conn Connection
}

func (u *UOWFactory) GetUoW() *UOW {
	return &UOW{
		Conn: u.Conn,
	}
}

func NewUoWFactory(conn Connection) *UOWFactory {
	return &UOWFactory{
		Conn: conn,
	}
}
