package core

import (
	"context"
	"encoding/json"

	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/query"
)

// This file contains the ports of the creator service (hexagonal architecture).
// Services depend on these interfaces; internal/data and internal/adapters implement them.

// Lister runs listing plans against one collection.
type Lister interface {
	// List plans and runs a paginated listing.
	List(ctx context.Context, req query.Request) (*model.Page[model.Document], error)
	// Get returns the first document matching where with the given population.
	Get(ctx context.Context, where query.FilterMap, populate []query.PopulateNode) (model.Document, error)
}

// JobRepository defines the interface for job data operations.
// Lookups by id match either the ObjectID or the public jobId.
type JobRepository interface {
	Lister
	Create(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id string) (*model.Job, error)
	Update(ctx context.Context, id string, fields map[string]any) (*model.Job, error)
	Delete(ctx context.Context, id string) error
	// MarkHired binds the job to a hire only while it is neither hired nor suspended.
	// It returns ErrJobTaken when that condition no longer holds.
	MarkHired(ctx context.Context, params MarkHiredParams) (*model.Job, error)
	SetStatus(ctx context.Context, id string, status model.JobStatus) (*model.Job, error)
}

// MarkHiredParams groups the fields written when a job is hired.
type MarkHiredParams struct {
	JobID        string
	HiredID      string
	InfluencerID string
	// Paid marks the payment path: status moves to In Progress and Amount is stored.
	Paid   bool
	Amount float64
}

// HireRepository defines the interface for hire data operations.
type HireRepository interface {
	Lister
	Create(ctx context.Context, hire *model.Hire) error
	FindByJobID(ctx context.Context, jobID string) (*model.Hire, error)
}

// BidLedger applies the outcome of a hire to the bids of a job.
type BidLedger interface {
	DeclineAll(ctx context.Context, jobID string) error
	Accept(ctx context.Context, acc model.BidAcceptance) error
}

// CreatorRepository defines the interface for creator data operations.
type CreatorRepository interface {
	Lister
	Create(ctx context.Context, creator *model.Creator) error
	// LinkUser records the creator id on the owning user document.
	LinkUser(ctx context.Context, userID, creatorID string) error
	FindByID(ctx context.Context, id string) (*model.Creator, error)
	FindByUserID(ctx context.Context, userID string) (*model.Creator, error)
	Update(ctx context.Context, id string, fields map[string]any) (*model.Creator, error)
	Count(ctx context.Context) (int64, error)
}

// Transactor runs fn inside one local transaction. The ctx passed to fn carries
// the transaction; repositories must use it for their writes to take part.
// Any error returned by fn aborts the transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// InfluencerClient is the influencer service as seen from this service.
type InfluencerClient interface {
	AcceptBid(ctx context.Context, bidID string) (*model.AcceptedBid, error)
	CreateJobRequest(ctx context.Context, cmd model.JobRequestCommand) error
	IsSuspended(ctx context.Context, influencerID string) (bool, error)
	MarkComplete(ctx context.Context, notice model.CompletionNotice) error
}

// PaymentClient is the payment service. PayBid returns the transaction record
// exactly as the payment service produced it.
type PaymentClient interface {
	PayBid(ctx context.Context, req model.PaymentRequest) (json.RawMessage, error)
}

// EventPublisher emits domain events after state changes commit.
type EventPublisher interface {
	Publish(ctx context.Context, events ...model.Event) error
}

// ErrorReporter forwards unexpected failures to an error tracker.
type ErrorReporter interface {
	Capture(ctx context.Context, err error, tags map[string]string)
}
