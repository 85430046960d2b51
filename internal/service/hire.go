package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/query"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
	"github.com/iynfluencer/creator-service/internal/observability/metrics"
	"github.com/iynfluencer/creator-service/internal/observability/statsd"
)

const hireFailedMessage = "Error occured while trying to hire this influencer! Try again later."

// HireServiceOptions groups dependencies for HireService.
type HireServiceOptions struct {
	Jobs        core.JobRepository    // Required
	Hires       core.HireRepository   // Required
	Bids        core.BidLedger        // Required: direct or remote bid mutation
	Tx          core.Transactor       // Required
	Influencers core.InfluencerClient // Required: ACCEPT_BID
	Payments    core.PaymentClient    // Required for HireAndPay
	Events      core.EventPublisher   // Optional
	Reporter    core.ErrorReporter    // Optional: receives transaction failures
	Metrics     statsd.Sink           // Optional
	Logger      *slog.Logger          // Optional
	Now         func() time.Time      // Optional
}

// HireService runs the hire workflow and serves hire reads.
type HireService struct {
	jobs        core.JobRepository
	hires       core.HireRepository
	bids        core.BidLedger
	tx          core.Transactor
	influencers core.InfluencerClient
	payments    core.PaymentClient
	events      eventSink
	reporter    core.ErrorReporter
	metrics     statsd.Sink
	logger      *slog.Logger
	now         func() time.Time
}

// NewHireService constructs a new HireService.
func NewHireService(opts HireServiceOptions) (*HireService, error) {
	switch {
	case opts.Jobs == nil:
		return nil, errors.New("JobRepository is required")
	case opts.Hires == nil:
		return nil, errors.New("HireRepository is required")
	case opts.Bids == nil:
		return nil, errors.New("BidLedger is required")
	case opts.Tx == nil:
		return nil, errors.New("Transactor is required")
	case opts.Influencers == nil:
		return nil, errors.New("InfluencerClient is required")
	case opts.Payments == nil:
		return nil, errors.New("PaymentClient is required")
	}
	logger := componentLogger(opts.Logger, "hire_service")
	return &HireService{
		jobs:        opts.Jobs,
		hires:       opts.Hires,
		bids:        opts.Bids,
		tx:          opts.Tx,
		influencers: opts.Influencers,
		payments:    opts.Payments,
		events:      eventSink{publisher: opts.Events, logger: logger},
		reporter:    opts.Reporter,
		metrics:     opts.Metrics,
		logger:      logger,
		now:         clock(opts.Now),
	}, nil
}

// MustNewHireService constructs a new HireService and panics on error.
func MustNewHireService(opts HireServiceOptions) *HireService {
	svc, err := NewHireService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create HireService: %v", err))
	}
	return svc
}

// Hire binds the bid to its job without charging the creator.
func (s *HireService) Hire(ctx context.Context, bidID, creatorID string) (*model.Hire, error) {
	res, err := s.run(ctx, bidID, creatorID, false)
	if err != nil {
		return nil, err
	}
	return res.hire, nil
}

// HireAndPay charges the creator for the bid and hires the influencer in the
// same transaction. It returns the payment record.
func (s *HireService) HireAndPay(ctx context.Context, bidID, creatorID string) (json.RawMessage, error) {
	res, err := s.run(ctx, bidID, creatorID, true)
	if err != nil {
		return nil, err
	}
	return res.payment, nil
}

type hireResult struct {
	hire    *model.Hire
	job     *model.Job
	payment json.RawMessage
}

func (s *HireService) run(ctx context.Context, bidID, creatorID string, paid bool) (res hireResult, err error) {
	start := s.now()
	defer func() {
		metrics.EmitHire(s.metrics, metrics.HireMetric{Paid: paid, Duration: s.now().Sub(start), Err: err})
	}()

	if bidID == "" {
		return res, apperrors.ValidationField("bidId", "bid id is required")
	}

	// ACCEPT_BID happens outside the transaction and is not undone on failure.
	bid, err := s.influencers.AcceptBid(ctx, bidID)
	if err != nil {
		return res, err
	}
	job, err := guardJob(ctx, s.jobs, bid.JobID, creatorID)
	if err != nil {
		return res, err
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		var txErr error
		res, txErr = s.commit(ctx, job, *bid, paid)
		return txErr
	})
	if err != nil {
		return hireResult{}, s.fail(ctx, err, bid, paid)
	}

	s.logger.InfoContext(ctx, "influencer hired",
		"job_id", job.JobID, "hired_id", res.hire.HiredID, "influencer_id", bid.InfluencerID, "paid", paid)
	s.events.publish(ctx, model.NewEvent(model.EventJobHired, job.JobID, res.hire, s.now()))
	return res, nil
}

func (s *HireService) commit(ctx context.Context, job *model.Job, bid model.AcceptedBid, paid bool) (hireResult, error) {
	var res hireResult
	if paid {
		tx, err := s.payments.PayBid(ctx, model.PaymentRequest{
			CreatorID:    job.CreatorID,
			InfluencerID: bid.InfluencerID,
			JobID:        job.JobID,
			BidID:        bid.BidID,
			Amount:       bid.Price,
		})
		if err != nil {
			return res, fmt.Errorf("pay bid: %w", err)
		}
		res.payment = tx
	}

	hire := model.NewHire(job, bid, s.now())
	if err := s.hires.Create(ctx, hire); err != nil {
		return res, fmt.Errorf("create hire: %w", err)
	}
	res.hire = hire

	updated, err := s.jobs.MarkHired(ctx, core.MarkHiredParams{
		JobID:        job.JobID,
		HiredID:      hire.HiredID,
		InfluencerID: bid.InfluencerID,
		Paid:         paid,
		Amount:       bid.Price,
	})
	if err != nil {
		return res, fmt.Errorf("mark job hired: %w", err)
	}
	res.job = updated

	if err := s.bids.DeclineAll(ctx, job.JobID); err != nil {
		return res, fmt.Errorf("decline bids: %w", err)
	}
	if err := s.bids.Accept(ctx, model.BidAcceptance{
		BidID:         bid.BidID,
		HiredID:       hire.HiredID,
		PaymentStatus: paid,
	}); err != nil {
		return res, fmt.Errorf("accept bid: %w", err)
	}
	return res, nil
}

// fail turns an aborted transaction into the caller-facing error. Losing the
// race for the job keeps its Forbidden answer; everything else is generic.
func (s *HireService) fail(ctx context.Context, err error, bid *model.AcceptedBid, paid bool) error {
	if errors.Is(err, core.ErrJobTaken) {
		return core.ErrJobTaken
	}
	s.logger.ErrorContext(ctx, "hire transaction aborted",
		"job_id", bid.JobID, "bid_id", bid.BidID, "paid", paid, "error", err)
	if s.reporter != nil {
		s.reporter.Capture(ctx, err, map[string]string{"workflow": "hire", "job_id": bid.JobID, "bid_id": bid.BidID})
	}
	return apperrors.Wrap(err, apperrors.ErrCodeTransaction, hireFailedMessage)
}

// ListMine lists the creator's hires with influencer and bid.
func (s *HireService) ListMine(ctx context.Context, creatorID string, params query.Params) (*model.Page[model.Document], error) {
	return s.hires.List(ctx, query.Request{
		Params:   params,
		Where:    query.FilterMap{"creatorId": creatorID},
		Populate: rel("influencer", "bid"),
	})
}

// GetMine returns one of the creator's hires with everything it references.
func (s *HireService) GetMine(ctx context.Context, id, creatorID string) (model.Document, error) {
	doc, err := s.hires.Get(ctx, scopedByID("hiredId", id, "creatorId", creatorID),
		rel("creator", "influencer", "job", "bid"))
	return doc, jobLookupErr(err)
}

// ListForCreator is the admin view of a creator's hires.
func (s *HireService) ListForCreator(ctx context.Context, creatorID string, params query.Params) (*model.Page[model.Document], error) {
	return s.hires.List(ctx, query.Request{
		Params: params,
		Where:  query.FilterMap{"creatorId": creatorID},
	})
}
