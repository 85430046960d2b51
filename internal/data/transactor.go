package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/iynfluencer/creator-service/internal/core"
)

var _ core.Transactor = (*MongoTransactor)(nil)

// MongoTransactor runs functions inside a MongoDB multi-document transaction.
//
// Commit and abort are explicit. The transaction is never retried on a
// transient error, because the function may have made remote calls (payment)
// that must not run twice.
type MongoTransactor struct {
	client *mongo.Client
	logger *slog.Logger
}

// NewMongoTransactor creates a transactor over client.
func NewMongoTransactor(client *mongo.Client, logger *slog.Logger) *MongoTransactor {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoTransactor{client: client, logger: logger.With("component", "mongo_transactor")}
}

// WithTx implements core.Transactor.
func (t *MongoTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if err := sess.StartTransaction(opts); err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}

	sctx := mongo.NewSessionContext(ctx, sess)
	if err := fn(sctx); err != nil {
		if abortErr := sess.AbortTransaction(context.WithoutCancel(ctx)); abortErr != nil {
			t.logger.ErrorContext(ctx, "abort transaction failed", "error", abortErr)
			return errors.Join(err, fmt.Errorf("abort transaction: %w", abortErr))
		}
		return err
	}

	if err := sess.CommitTransaction(sctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
