package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/rpc"
)

var _ core.InfluencerClient = (*InfluencerClient)(nil)

// InfluencerClient talks to the influencer service, which owns bids.
type InfluencerClient struct {
	caller Caller
}

// NewInfluencerClient creates a client sending through caller.
func NewInfluencerClient(caller Caller) *InfluencerClient {
	return &InfluencerClient{caller: caller}
}

// AcceptBid asks the influencer service to accept bidID and returns the bid.
func (c *InfluencerClient) AcceptBid(ctx context.Context, bidID string) (*model.AcceptedBid, error) {
	var bid model.AcceptedBid
	if err := call(ctx, c.caller, rpc.CmdAcceptBid, map[string]string{"bidId": bidID}, &bid); err != nil {
		return nil, err
	}
	if bid.JobID == "" {
		return nil, fmt.Errorf("%s: reply has no jobId", rpc.CmdAcceptBid)
	}
	if bid.BidID == "" {
		bid.BidID = bidID
	}
	return &bid, nil
}

// CreateJobRequest forwards a creator's job request to an influencer.
func (c *InfluencerClient) CreateJobRequest(ctx context.Context, cmd model.JobRequestCommand) error {
	return call(ctx, c.caller, rpc.CmdCreateJobRequest, cmd, nil)
}

// IsSuspended reports whether the influencer is suspended. The reply data is
// either a bare boolean or an influencer document with a suspended field.
func (c *InfluencerClient) IsSuspended(ctx context.Context, influencerID string) (bool, error) {
	var raw json.RawMessage
	if err := call(ctx, c.caller, rpc.CmdSuspendedInfluencer, map[string]string{"influencerId": influencerID}, &raw); err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}

	var flag bool
	if err := json.Unmarshal(raw, &flag); err == nil {
		return flag, nil
	}
	var doc struct {
		Suspended bool `json:"suspended"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("%s: decode reply: %w", rpc.CmdSuspendedInfluencer, err)
	}
	return doc.Suspended, nil
}

// MarkComplete tells the influencer service the job is done and what it paid.
func (c *InfluencerClient) MarkComplete(ctx context.Context, notice model.CompletionNotice) error {
	return call(ctx, c.caller, rpc.CmdMarkComplete, notice, nil)
}
