package xcontext

import (
	"context"
	"time"

	"github.com/airtime-lab/backend/config"
	"github.com/airtime-lab/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTransactionKey struct{}
	requestUserIDKey struct{}
	startTimeKey     struct{}
)

type dbTransaction struct {
	tx   *gorm.DB
	done bool
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg := ctx.Value(configsKey{})
	if cfg == nil {
		return config.Configs{}
	}

	return cfg.(config.Configs)
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l := ctx.Value(loggerKey{})
	if l == nil {
		return logger.NewNopLogger()
	}

	return l.(logger.Logger)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction of ctx if any, otherwise the database
// session. The returned value is bound to ctx.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok && t != nil && !t.done {
		return t.tx.WithContext(ctx)
	}

	return ctx.Value(dbKey{}).(*gorm.DB).WithContext(ctx)
}

// WithDBTransaction begins a transaction and binds it to the returned
// context. Transactions are not nested: calling it on a context which already
// carries a running transaction returns ctx unchanged.
func WithDBTransaction(ctx context.Context) context.Context {
	if t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok && t != nil && !t.done {
		return ctx
	}

	tx := ctx.Value(dbKey{}).(*gorm.DB).WithContext(ctx).Begin()
	return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: tx})
}

// WithCommitDBTransaction commits the transaction bound to ctx. A later
// rollback on the same transaction is a no-op.
func WithCommitDBTransaction(ctx context.Context) (context.Context, error) {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok || t == nil || t.done {
		return ctx, nil
	}

	t.done = true
	if err := t.tx.Commit().Error; err != nil {
		return context.WithValue(ctx, dbTransactionKey{}, nil), err
	}

	return context.WithValue(ctx, dbTransactionKey{}, nil), nil
}

// WithRollbackDBTransaction rolls back the transaction bound to ctx unless it
// was committed already.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok || t == nil || t.done {
		return ctx
	}

	t.done = true
	if err := t.tx.Rollback().Error; err != nil {
		Logger(ctx).Warnf("Cannot rollback transaction: %v", err)
	}

	return context.WithValue(ctx, dbTransactionKey{}, nil)
}

func WithRequestUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

func RequestUserID(ctx context.Context) int64 {
	id, ok := ctx.Value(requestUserIDKey{}).(int64)
	if !ok {
		return 0
	}

	return id
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	t, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok {
		return time.Time{}
	}

	return t
}
