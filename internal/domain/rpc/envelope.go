// Package rpc defines the message shapes exchanged with the other marketplace
// services over the Redis request/reply transport.
package rpc

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

// Command names sent to other services.
const (
	CmdAcceptBid           = "ACCEPT_BID"
	CmdCreateJobRequest    = "CREATE_JOB_REQUEST"
	CmdPayBid              = "PAY_BID"
	CmdSuspendedInfluencer = "SUSPENDED_INFLUENCER"
	CmdMarkComplete        = "MARK_COMPLETE"
	CmdUserAuth            = "USER_AUTH"
	CmdDeclineBids         = "DECLINE_BIDS"
	CmdHireBid             = "HIRE_BID"
)

// Command names served by this service.
const (
	CmdGetJob           = "GET_JOB"
	CmdHireInfluencer   = "HIRE_INFLUENCER"
	CmdSuspendedCreator = "SUSPENDED_CREATOR"
)

// Envelope is the {status, data, error} reply every service returns.
type Envelope struct {
	Status bool            `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// OK wraps v in a successful envelope.
func OK(v any) (Envelope, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal reply: %w", err)
	}
	return Envelope{Status: true, Data: data}, nil
}

// Fail builds a rejected envelope carrying msg.
func Fail(msg string) Envelope {
	return Envelope{Status: false, Error: msg}
}

// Err reports the envelope as an error. A rejected reply becomes RemoteRejected
// carrying the remote message.
func (e Envelope) Err() error {
	if e.Status {
		return nil
	}
	msg := e.Error
	if msg == "" {
		msg = "remote service rejected the request"
	}
	return apperrors.RemoteRejected(msg)
}

// Into decodes Data into dst after checking Status. A nil dst only checks status.
func (e Envelope) Into(dst any) error {
	if err := e.Err(); err != nil {
		return err
	}
	if dst == nil || len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, dst); err != nil {
		return fmt.Errorf("decode reply data: %w", err)
	}
	return nil
}
