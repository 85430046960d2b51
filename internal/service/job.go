package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iynfluencer/creator-service/internal/core"
	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/query"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

var (
	errJobNotFound          = apperrors.NotFound("Job Not Found")
	errJobAlreadyCompleted  = apperrors.NotFound("job already completed")
	errHireNotFound         = apperrors.NotFound("No hire found for this job")
	errInfluencerOnly       = apperrors.Forbidden("You must be an influencer to view.")
	errJobRequestToYourself = apperrors.Forbidden("You cannot perform this operation. You cannot send a job request to yourself.")
	errInfluencerSuspended  = apperrors.Forbidden("You cannot perform this operation. This influencer has been suspended!")
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo        core.JobRepository    // Required: job repository
	Hires       core.HireRepository   // Required: hire lookups for completion
	Influencers core.InfluencerClient // Required: job requests and completion notices
	Events      core.EventPublisher   // Optional: domain event sink
	Logger      *slog.Logger          // Optional: structured logger
	Now         func() time.Time      // Optional: clock override for tests
}

// JobService provides the business logic for jobs owned by creators.
type JobService struct {
	repo        core.JobRepository
	hires       core.HireRepository
	influencers core.InfluencerClient
	events      eventSink
	logger      *slog.Logger
	now         func() time.Time
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Hires == nil {
		return nil, errors.New("HireRepository is required")
	}
	if opts.Influencers == nil {
		return nil, errors.New("InfluencerClient is required")
	}
	logger := componentLogger(opts.Logger, "job_service")
	return &JobService{
		repo:        opts.Repo,
		hires:       opts.Hires,
		influencers: opts.Influencers,
		events:      eventSink{publisher: opts.Events, logger: logger},
		logger:      logger,
		now:         clock(opts.Now),
	}, nil
}

// MustNewJobService constructs a new JobService and panics on error.
func MustNewJobService(opts JobServiceOptions) *JobService {
	svc, err := NewJobService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create JobService: %v", err))
	}
	return svc
}

// Create stores a new job for creatorID and announces it.
func (s *JobService) Create(ctx context.Context, creatorID string, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, apperrors.Validation("job body is required")
	}
	job := model.NewJob(creatorID, req, s.now())
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.logger.DebugContext(ctx, "job created", "job_id", job.JobID, "creator_id", creatorID)
	s.events.publish(ctx, model.NewEvent(model.EventJobCreated, job.JobID, job, s.now()))
	return job, nil
}

// Guard loads a job that is still open for changes. A non-empty creatorID
// also requires ownership; a job owned by someone else is reported as missing.
func (s *JobService) Guard(ctx context.Context, id, creatorID string) (*model.Job, error) {
	return guardJob(ctx, s.repo, id, creatorID)
}

func guardJob(ctx context.Context, repo core.JobRepository, id, creatorID string) (*model.Job, error) {
	if id == "" {
		return nil, errJobNotFound
	}
	job, err := repo.FindByID(ctx, id)
	if apperrors.IsNotFound(err) {
		return nil, errJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if creatorID != "" && job.CreatorID != creatorID {
		return nil, errJobNotFound
	}
	if job.Suspended {
		return nil, core.ErrJobSuspended
	}
	if job.Hired {
		return nil, core.ErrJobTaken
	}
	return job, nil
}

// Update applies a partial update to an open job.
func (s *JobService) Update(ctx context.Context, id, creatorID string, req *model.UpdateJobRequest) (*model.Job, error) {
	job, err := s.Guard(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, job.JobID, req.Fields())
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return updated, nil
}

// Delete removes an open job.
func (s *JobService) Delete(ctx context.Context, id, creatorID string) error {
	job, err := s.Guard(ctx, id, creatorID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, job.JobID); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

// GetOne returns any job with its creator card and bid count.
func (s *JobService) GetOne(ctx context.Context, id string) (model.Document, error) {
	doc, err := s.repo.Get(ctx, query.ByID("jobId", id), []query.PopulateNode{
		creatorWithUser(),
		{Relation: "bidsCount"},
	})
	return doc, jobLookupErr(err)
}

// GetMine returns one of the creator's own jobs with its bids.
func (s *JobService) GetMine(ctx context.Context, id, creatorID string) (model.Document, error) {
	doc, err := s.repo.Get(ctx, scopedByID("jobId", id, "creatorId", creatorID), rel("creator", "influencer", "bids"))
	return doc, jobLookupErr(err)
}

// ListOpen lists jobs an influencer can still bid on.
func (s *JobService) ListOpen(ctx context.Context, caller domainauth.Identity, params query.Params) (*model.Page[model.Document], error) {
	if !caller.IsInfluencer() {
		return nil, errInfluencerOnly
	}
	return s.repo.List(ctx, query.Request{
		Params: params,
		Where: query.FilterMap{
			"influencerId": map[string]any{"$exists": false},
			"hired":        false,
		},
		Populate: []query.PopulateNode{creatorWithUser(), {Relation: "bidsCount"}, {Relation: "bids"}},
	})
}

// ListForInfluencer lists the jobs an influencer was hired for.
func (s *JobService) ListForInfluencer(ctx context.Context, caller domainauth.Identity, params query.Params) (*model.Page[model.Document], error) {
	if !caller.IsInfluencer() {
		return nil, errInfluencerOnly
	}
	return s.repo.List(ctx, query.Request{
		Params:   params,
		Where:    query.FilterMap{"influencerId": caller.InfluencerID},
		Populate: []query.PopulateNode{creatorWithUser(), {Relation: "review"}},
	})
}

// ListAll lists every job that is neither suspended nor hired.
func (s *JobService) ListAll(ctx context.Context, params query.Params) (*model.Page[model.Document], error) {
	return s.repo.List(ctx, query.Request{
		Params:   params,
		Where:    query.FilterMap{"suspended": false, "hired": false},
		Populate: rel("creator"),
	})
}

// ListMine lists the creator's own jobs.
func (s *JobService) ListMine(ctx context.Context, creatorID string, params query.Params) (*model.Page[model.Document], error) {
	populate := append(rel("bidsCount", "review", "creator"), influencerWithUser())
	return s.repo.List(ctx, query.Request{
		Params:   params,
		Where:    query.FilterMap{"creatorId": creatorID},
		Populate: populate,
	})
}

// SendJobRequest invites an influencer to one of the caller's open jobs.
// Suspended influencers cannot receive requests.
func (s *JobService) SendJobRequest(ctx context.Context, caller domainauth.Identity, req model.SendJobRequest) error {
	if caller.InfluencerID != "" && caller.InfluencerID == req.InfluencerID {
		return errJobRequestToYourself
	}
	job, err := s.Guard(ctx, req.JobID, caller.CreatorID)
	if err != nil {
		return err
	}
	suspended, err := s.influencers.IsSuspended(ctx, req.InfluencerID)
	if err != nil {
		return fmt.Errorf("check influencer: %w", err)
	}
	if suspended {
		return errInfluencerSuspended
	}
	return s.influencers.CreateJobRequest(ctx, model.JobRequestCommand{
		JobID:         job.JobID,
		CreatorID:     caller.CreatorID,
		CreatorUserID: caller.UserID,
		InfluencerID:  req.InfluencerID,
	})
}

// MarkAsCompleted closes a hired job and tells the influencer service what
// was earned. The status write and the notice are not atomic: a failed
// notice leaves the job completed.
func (s *JobService) MarkAsCompleted(ctx context.Context, jobID, creatorID string) (*model.Job, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if apperrors.IsNotFound(err) || (err == nil && job.CreatorID != creatorID) {
		return nil, errJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job.IsCompleted() {
		return nil, errJobAlreadyCompleted
	}

	hire, err := s.hires.FindByJobID(ctx, job.JobID)
	if apperrors.IsNotFound(err) {
		return nil, errHireNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load hire: %w", err)
	}

	completed, err := s.repo.SetStatus(ctx, job.JobID, model.JobStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("complete job: %w", err)
	}

	notice := model.CompletionNotice{InfluencerID: hire.InfluencerID, Amount: hire.Price}
	if err := s.influencers.MarkComplete(ctx, notice); err != nil {
		s.logger.ErrorContext(ctx, "completion notice failed after status change",
			"job_id", job.JobID, "influencer_id", hire.InfluencerID, "error", err)
		return nil, fmt.Errorf("notify completion: %w", err)
	}

	s.events.publish(ctx, model.NewEvent(model.EventJobCompleted, job.JobID, notice, s.now()))
	return completed, nil
}

func jobLookupErr(err error) error {
	if apperrors.IsNotFound(err) {
		return errJobNotFound
	}
	return err
}
