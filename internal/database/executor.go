package database

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrTxFailed marks a database-layer failure: the transaction was rolled
// back and none of its effects apply. Callers match it with errors.Is to
// tell infrastructure failures apart from domain outcomes.
var ErrTxFailed = errors.New("transaction failed")

// Executor runs persistence work inside a transaction: commit on success,
// log and roll back on failure. Only database operations belong in fn;
// domain decisions stay with the caller.
type Executor struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewExecutor(db *gorm.DB, log *zap.Logger) *Executor {
	return &Executor{db: db, log: log}
}

// RunInTransaction executes fn inside a fresh transaction bound to ctx.
// Any error from fn or from commit rolls everything back, is logged, and
// comes back wrapped in ErrTxFailed.
func (e *Executor) RunInTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := e.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		e.log.Error("begin transaction", zap.Error(tx.Error))
		return fmt.Errorf("%w: %v", ErrTxFailed, tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		e.log.Error("database error, rolling back", zap.Error(err))
		tx.Rollback()
		return fmt.Errorf("%w: %v", ErrTxFailed, err)
	}

	if err := tx.Commit().Error; err != nil {
		e.log.Error("commit failed", zap.Error(err))
		tx.Rollback()
		return fmt.Errorf("%w: %v", ErrTxFailed, err)
	}
	return nil
}
