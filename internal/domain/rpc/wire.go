package rpc

import (
	"encoding/json"
	"fmt"
)

// Pattern is the routing key of a message.
type Pattern struct {
	Cmd string `json:"cmd"`
}

// Channel is the pub/sub channel a command is published on: the JSON of its pattern.
func Channel(cmd string) string {
	b, _ := json.Marshal(Pattern{Cmd: cmd}) //nolint:errcheck // a struct of one string always marshals
	return string(b)
}

// ReplyChannel is the channel replies to cmd arrive on.
func ReplyChannel(cmd string) string {
	return Channel(cmd) + ".reply"
}

// Request is one published call.
type Request struct {
	Pattern Pattern         `json:"pattern"`
	Data    json.RawMessage `json:"data"`
	ID      string          `json:"id,omitempty"`
}

// NewRequest encodes payload as a call to cmd with correlation id.
func NewRequest(cmd, id string, payload any) (Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Request{}, fmt.Errorf("marshal %s payload: %w", cmd, err)
	}
	return Request{Pattern: Pattern{Cmd: cmd}, Data: data, ID: id}, nil
}

// Reply answers one Request. Err carries transport-level failures;
// business outcomes travel inside Response.
type Reply struct {
	ID         string    `json:"id"`
	Response   *Envelope `json:"response,omitempty"`
	Err        any       `json:"err,omitempty"`
	IsDisposed bool      `json:"isDisposed"`
}

// Envelope returns the reply's envelope or the transport error it carries.
func (r Reply) Envelope() (Envelope, error) {
	if r.Err != nil {
		return Envelope{}, fmt.Errorf("remote transport error: %v", r.Err)
	}
	if r.Response == nil {
		return Envelope{}, fmt.Errorf("reply %s carried no response", r.ID)
	}
	return *r.Response, nil
}
