package data

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

var _ core.BidLedger = (*BidLedger)(nil)

// BidLedger writes hire outcomes straight into the bids collection, which the
// influencer service owns. Writes join the caller's transaction through ctx.
type BidLedger struct {
	coll *mongo.Collection
}

// NewBidLedger creates a BidLedger over the bids collection.
func NewBidLedger(db *mongo.Database) *BidLedger {
	return &BidLedger{coll: db.Collection(CollectionBids)}
}

// DeclineAll marks every bid of the job declined.
func (l *BidLedger) DeclineAll(ctx context.Context, jobID string) error {
	_, err := l.coll.UpdateMany(ctx,
		bson.M{"jobId": jobID},
		bson.M{"$set": bson.M{"hired": false, "status": model.BidStatusDeclined}},
	)
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("decline bids: %w", err))
	}
	return nil
}

// Accept marks the winning bid accepted.
func (l *BidLedger) Accept(ctx context.Context, acc model.BidAcceptance) error {
	set := bson.M{"hired": true, "hiredId": acc.HiredID, "status": model.BidStatusAccepted}
	if acc.PaymentStatus {
		set["paymentStatus"] = true
	}
	res, err := l.coll.UpdateOne(ctx, bson.M{"bidId": acc.BidID}, bson.M{"$set": set})
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("accept bid: %w", err))
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFoundf("bid %s not found", acc.BidID)
	}
	return nil
}
