package remote

import (
	"context"
	"encoding/json"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/rpc"
)

var _ core.PaymentClient = (*PaymentClient)(nil)

// PaymentClient talks to the payment service.
type PaymentClient struct {
	caller Caller
}

// NewPaymentClient creates a client sending through caller.
func NewPaymentClient(caller Caller) *PaymentClient {
	return &PaymentClient{caller: caller}
}

// PayBid charges the creator for the bid and returns the transaction record untouched.
func (c *PaymentClient) PayBid(ctx context.Context, req model.PaymentRequest) (json.RawMessage, error) {
	var tx json.RawMessage
	if err := call(ctx, c.caller, rpc.CmdPayBid, req, &tx); err != nil {
		return nil, err
	}
	return tx, nil
}
