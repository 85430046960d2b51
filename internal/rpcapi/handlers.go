// Package rpcapi serves the commands other marketplace services send to the
// creator service over the Redis request/reply transport.
package rpcapi

import (
	"context"
	"encoding/json"

	"github.com/iynfluencer/creator-service/internal/adapters/redis"
	"github.com/iynfluencer/creator-service/internal/domain/rpc"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
	"github.com/iynfluencer/creator-service/internal/http/validation"
	"github.com/iynfluencer/creator-service/internal/service"
)

// Registrar is the part of the RPC server handlers are registered on.
type Registrar interface {
	Handle(cmd string, h redis.Handler)
}

// Handlers adapts the services to RPC commands.
type Handlers struct {
	Jobs     *service.JobService
	Hires    *service.HireService
	Creators *service.CreatorService
}

// Register binds every command this service answers.
func Register(r Registrar, h *Handlers) {
	r.Handle(rpc.CmdGetJob, h.GetJob)
	r.Handle(rpc.CmdHireInfluencer, h.HireInfluencer)
	r.Handle(rpc.CmdSuspendedCreator, h.SuspendedCreator)
}

type getJobRequest struct {
	JobID string `json:"jobId" validate:"required"`
}

// GetJob returns the job when it exists and is still open: not suspended and
// not hired. Ownership is not checked.
func (h *Handlers) GetJob(ctx context.Context, data json.RawMessage) (any, error) {
	var req getJobRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return h.Jobs.Guard(ctx, req.JobID, "")
}

type hireRequest struct {
	BidID     string `json:"bidId"     validate:"required"`
	CreatorID string `json:"creatorId" validate:"required"`
}

// HireInfluencer runs the hire workflow without payment and returns the hire.
func (h *Handlers) HireInfluencer(ctx context.Context, data json.RawMessage) (any, error) {
	var req hireRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return h.Hires.Hire(ctx, req.BidID, req.CreatorID)
}

type creatorRequest struct {
	CreatorID string `json:"creatorId" validate:"required"`
}

// SuspendedCreator answers with the creator when it exists and is not
// suspended, and with a forbidden error otherwise.
func (h *Handlers) SuspendedCreator(ctx context.Context, data json.RawMessage) (any, error) {
	var req creatorRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	return h.Creators.EnsureNotSuspended(ctx, req.CreatorID)
}

func decode(data json.RawMessage, dst any) error {
	if len(data) == 0 {
		return apperrors.Validation("payload is required")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "payload must be a JSON object")
	}
	return validation.Struct(dst)
}
