package remote

import (
	"context"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/rpc"
)

var _ core.BidLedger = (*BidCommands)(nil)

// BidCommands applies hire outcomes by asking the influencer service, which
// owns the bids collection, to write them. These calls are not part of the
// local transaction.
type BidCommands struct {
	caller Caller
}

// NewBidCommands creates a bid ledger sending through caller.
func NewBidCommands(caller Caller) *BidCommands {
	return &BidCommands{caller: caller}
}

// DeclineAll asks for every bid of the job to be declined.
func (b *BidCommands) DeclineAll(ctx context.Context, jobID string) error {
	return call(ctx, b.caller, rpc.CmdDeclineBids, map[string]string{"jobId": jobID}, nil)
}

// Accept asks for the winning bid to be marked hired.
func (b *BidCommands) Accept(ctx context.Context, acc model.BidAcceptance) error {
	return call(ctx, b.caller, rpc.CmdHireBid, acc, nil)
}
