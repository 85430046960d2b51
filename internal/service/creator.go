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

const createCreatorFailedMessage = "Error occured while trying to create a Creator Account! Try again later."

var (
	errCreatorNotFound  = apperrors.NotFound("Creator Not Found")
	errCreatorMissing   = apperrors.NotFound("Creator not found")
	errCreatorIDMissing = apperrors.Forbidden("Creator not found.")
	errCreatorSuspended = apperrors.Forbidden("You have been suspended!")
)

// CreatorServiceOptions groups dependencies for CreatorService.
type CreatorServiceOptions struct {
	Repo   core.CreatorRepository // Required
	Tx     core.Transactor        // Required: creator insert and user link commit together
	Events core.EventPublisher    // Optional
	Logger *slog.Logger           // Optional
	Now    func() time.Time       // Optional
}

// CreatorService manages creator profiles.
type CreatorService struct {
	repo   core.CreatorRepository
	tx     core.Transactor
	events eventSink
	logger *slog.Logger
	now    func() time.Time
}

// NewCreatorService constructs a new CreatorService.
func NewCreatorService(opts CreatorServiceOptions) (*CreatorService, error) {
	if opts.Repo == nil {
		return nil, errors.New("CreatorRepository is required")
	}
	if opts.Tx == nil {
		return nil, errors.New("Transactor is required")
	}
	logger := componentLogger(opts.Logger, "creator_service")
	return &CreatorService{
		repo:   opts.Repo,
		tx:     opts.Tx,
		events: eventSink{publisher: opts.Events, logger: logger},
		logger: logger,
		now:    clock(opts.Now),
	}, nil
}

// MustNewCreatorService constructs a new CreatorService and panics on error.
func MustNewCreatorService(opts CreatorServiceOptions) *CreatorService {
	svc, err := NewCreatorService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create CreatorService: %v", err))
	}
	return svc
}

// Create inserts the caller's creator profile and links it to their user
// document in one transaction.
func (s *CreatorService) Create(ctx context.Context, caller domainauth.Identity, req *model.CreateCreatorRequest) (*model.Creator, error) {
	if req == nil {
		return nil, apperrors.Validation("creator body is required")
	}
	if caller.UserID == "" {
		return nil, apperrors.Unauthorized("You are not authorized! Please Sign in.")
	}

	creator := model.NewCreator(caller.UserID, req, s.now())
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, creator); err != nil {
			return err
		}
		return s.repo.LinkUser(ctx, creator.UserID, creator.CreatorID)
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code != apperrors.ErrCodeInternal {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "create creator aborted", "user_id", caller.UserID, "error", err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTransaction, createCreatorFailedMessage)
	}

	s.events.publish(ctx, model.NewEvent(model.EventCreatorCreated, creator.CreatorID, creator, s.now()))
	return creator, nil
}

// GetMe loads the caller's own profile.
func (s *CreatorService) GetMe(ctx context.Context, creatorID string) (*model.Creator, error) {
	if creatorID == "" {
		return nil, errCreatorNotFound
	}
	creator, err := s.repo.FindByID(ctx, creatorID)
	if apperrors.IsNotFound(err) {
		return nil, errCreatorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load creator: %w", err)
	}
	return creator, nil
}

// EnsureNotSuspended loads the profile and rejects suspended creators.
func (s *CreatorService) EnsureNotSuspended(ctx context.Context, creatorID string) (*model.Creator, error) {
	creator, err := s.GetMe(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator.Suspended {
		return nil, errCreatorSuspended
	}
	return creator, nil
}

// Update applies a partial update to an active profile.
func (s *CreatorService) Update(ctx context.Context, creatorID string, req *model.UpdateCreatorRequest) (*model.Creator, error) {
	creator, err := s.EnsureNotSuspended(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, creator.CreatorID, req.Fields())
	if err != nil {
		return nil, fmt.Errorf("update creator: %w", err)
	}
	return updated, nil
}

// GetOne returns an active creator with the owning user.
func (s *CreatorService) GetOne(ctx context.Context, id string) (model.Document, error) {
	where := query.ByID("creatorId", id)
	where["suspended"] = false
	doc, err := s.repo.Get(ctx, where, rel("user"))
	if apperrors.IsNotFound(err) {
		return nil, errCreatorNotFound
	}
	return doc, err
}

// List is the public creator listing. A niche list matches any of its values.
func (s *CreatorService) List(ctx context.Context, params query.Params) (*model.Page[model.Document], error) {
	return s.repo.List(ctx, s.listRequest(params))
}

// AdminList is List plus the number of creators overall.
func (s *CreatorService) AdminList(ctx context.Context, params query.Params) (*model.CreatorAdminPage[model.Document], error) {
	page, err := s.repo.List(ctx, s.listRequest(params))
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &model.CreatorAdminPage[model.Document]{Page: page, TotalAmount: total}, nil
}

// ListByUser lists the active profiles owned by userID.
func (s *CreatorService) ListByUser(ctx context.Context, userID string, params query.Params) (*model.Page[model.Document], error) {
	return s.repo.List(ctx, query.Request{
		Params:   params,
		Where:    query.FilterMap{"userId": userID, "suspended": false},
		Populate: rel("user"),
	})
}

// Exists rejects callers without a creator id and ids with no profile.
func (s *CreatorService) Exists(ctx context.Context, creatorID string) (*model.Creator, error) {
	if creatorID == "" {
		return nil, errCreatorIDMissing
	}
	creator, err := s.repo.FindByID(ctx, creatorID)
	if apperrors.IsNotFound(err) {
		return nil, errCreatorMissing
	}
	if err != nil {
		return nil, fmt.Errorf("load creator: %w", err)
	}
	return creator, nil
}

// listRequest moves a multi-valued niche out of the translated filter so
// the $in operator is not rewritten a second time.
func (s *CreatorService) listRequest(params query.Params) query.Request {
	req := query.Request{Params: params, Populate: rel("user")}
	niche, ok := params.Filter["niche"]
	if !ok {
		return req
	}
	var values []string
	switch v := niche.(type) {
	case []string:
		values = v
	case []any:
		for _, item := range v {
			if str, isStr := item.(string); isStr {
				values = append(values, str)
			}
		}
	default:
		return req
	}
	filter := params.Filter.Clone()
	delete(filter, "niche")
	req.Params.Filter = filter
	req.Where = query.FilterMap{"niche": map[string]any{"$in": values}}
	return req
}
