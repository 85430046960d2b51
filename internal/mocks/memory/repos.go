package memory

import (
	"context"
	"errors"
	"time"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

// ErrInjected is returned by the Fail* hooks when set to true.
var ErrInjected = errors.New("injected failure")

// Hooks lets a test force a specific write to fail.
type Hooks struct {
	FailHireCreate bool
	FailDecline    bool
	FailAccept     bool
	FailLinkUser   bool
}

func (s *Store) now() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }

// JobRepo implements core.JobRepository over a Store.
type JobRepo struct {
	*lister
	store *Store
}

// NewJobRepo creates a job repository over store.
func NewJobRepo(store *Store) *JobRepo {
	return &JobRepo{
		store: store,
		lister: &lister{docs: func() []model.Document {
			return sortedDocs(store, func(s *Store) map[string]model.Job { return s.jobs })
		}},
	}
}

func (r *JobRepo) Create(_ context.Context, job *model.Job) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, dup := r.store.jobs[job.JobID]; dup {
		return apperrors.Conflict("duplicate jobId")
	}
	r.store.jobs[job.JobID] = *job
	return nil
}

func (r *JobRepo) FindByID(_ context.Context, id string) (*model.Job, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	job, ok := r.store.jobs[id]
	if !ok {
		return nil, apperrors.NotFound("job not found")
	}
	return &job, nil
}

func (r *JobRepo) Update(_ context.Context, id string, fields map[string]any) (*model.Job, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	job, ok := r.store.jobs[id]
	if !ok {
		return nil, apperrors.NotFound("job not found")
	}
	for k, v := range fields {
		switch k {
		case "title":
			job.Title, _ = v.(string)
		case "description":
			job.Description, _ = v.(string)
		case "media":
			job.Media, _ = v.(string)
		case "category":
			job.Category, _ = v.([]string)
		case "responsibilities":
			job.Responsibilities, _ = v.([]string)
		case "budgetFrom":
			job.BudgetFrom, _ = v.(float64)
		case "budgetTo":
			job.BudgetTo, _ = v.(float64)
		case "duration":
			job.Duration, _ = v.(int)
		}
	}
	job.UpdatedAt = r.store.now()
	r.store.jobs[id] = job
	return &job, nil
}

func (r *JobRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.jobs[id]; !ok {
		return apperrors.NotFound("job not found")
	}
	delete(r.store.jobs, id)
	return nil
}

// MarkHired applies the same not-hired, not-suspended precondition as the
// Mongo repository.
func (r *JobRepo) MarkHired(_ context.Context, p core.MarkHiredParams) (*model.Job, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	job, ok := r.store.jobs[p.JobID]
	if !ok || job.Hired || job.Suspended {
		return nil, core.ErrJobTaken
	}
	job.Hired = true
	job.HiredID = p.HiredID
	job.InfluencerID = p.InfluencerID
	if p.Paid {
		job.Status = model.JobStatusInProgress
		job.Amount = p.Amount
	}
	r.store.jobs[p.JobID] = job
	return &job, nil
}

func (r *JobRepo) SetStatus(_ context.Context, id string, status model.JobStatus) (*model.Job, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	job, ok := r.store.jobs[id]
	if !ok {
		return nil, apperrors.NotFound("job not found")
	}
	job.Status = status
	r.store.jobs[id] = job
	return &job, nil
}

// HireRepo implements core.HireRepository over a Store.
type HireRepo struct {
	*lister
	store *Store
	hooks *Hooks
}

// NewHireRepo creates a hire repository over store.
func NewHireRepo(store *Store, hooks *Hooks) *HireRepo {
	if hooks == nil {
		hooks = &Hooks{}
	}
	return &HireRepo{
		store: store,
		hooks: hooks,
		lister: &lister{docs: func() []model.Document {
			return sortedDocs(store, func(s *Store) map[string]model.Hire { return s.hires })
		}},
	}
}

func (r *HireRepo) Create(_ context.Context, hire *model.Hire) error {
	if r.hooks.FailHireCreate {
		return ErrInjected
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, h := range r.store.hires {
		if h.JobID == hire.JobID {
			return apperrors.Conflict("duplicate jobId")
		}
	}
	r.store.hires[hire.HiredID] = *hire
	return nil
}

func (r *HireRepo) FindByJobID(_ context.Context, jobID string) (*model.Hire, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, h := range r.store.hires {
		if h.JobID == jobID {
			return &h, nil
		}
	}
	return nil, apperrors.NotFound("hire not found")
}

// BidLedger implements core.BidLedger over a Store.
type BidLedger struct {
	store *Store
	hooks *Hooks
}

// NewBidLedger creates a ledger over store.
func NewBidLedger(store *Store, hooks *Hooks) *BidLedger {
	if hooks == nil {
		hooks = &Hooks{}
	}
	return &BidLedger{store: store, hooks: hooks}
}

func (l *BidLedger) DeclineAll(_ context.Context, jobID string) error {
	if l.hooks.FailDecline {
		return ErrInjected
	}
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	for id, b := range l.store.bids {
		if b.JobID == jobID {
			b.Status = model.BidStatusDeclined
			l.store.bids[id] = b
		}
	}
	return nil
}

func (l *BidLedger) Accept(_ context.Context, acc model.BidAcceptance) error {
	if l.hooks.FailAccept {
		return ErrInjected
	}
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	b, ok := l.store.bids[acc.BidID]
	if !ok {
		return apperrors.NotFound("bid not found")
	}
	b.Status = model.BidStatusAccepted
	b.Hired = true
	b.HiredID = acc.HiredID
	b.PaymentStatus = acc.PaymentStatus
	l.store.bids[acc.BidID] = b
	return nil
}

// CreatorRepo implements core.CreatorRepository over a Store.
type CreatorRepo struct {
	*lister
	store *Store
	hooks *Hooks
}

// NewCreatorRepo creates a creator repository over store.
func NewCreatorRepo(store *Store, hooks *Hooks) *CreatorRepo {
	if hooks == nil {
		hooks = &Hooks{}
	}
	return &CreatorRepo{
		store: store,
		hooks: hooks,
		lister: &lister{docs: func() []model.Document {
			return sortedDocs(store, func(s *Store) map[string]model.Creator { return s.creators })
		}},
	}
}

func (r *CreatorRepo) Create(_ context.Context, creator *model.Creator) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.creators {
		if c.UserID == creator.UserID {
			return apperrors.Conflict("creator already exists for this user")
		}
	}
	r.store.creators[creator.CreatorID] = *creator
	return nil
}

func (r *CreatorRepo) LinkUser(_ context.Context, userID, creatorID string) error {
	if r.hooks.FailLinkUser {
		return ErrInjected
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[userID]; ok {
		r.store.users[userID] = creatorID
	}
	return nil
}

func (r *CreatorRepo) FindByID(_ context.Context, id string) (*model.Creator, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.creators[id]
	if !ok {
		return nil, apperrors.NotFound("creator not found")
	}
	return &c, nil
}

func (r *CreatorRepo) FindByUserID(_ context.Context, userID string) (*model.Creator, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.creators {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, apperrors.NotFound("creator not found")
}

func (r *CreatorRepo) Update(_ context.Context, id string, fields map[string]any) (*model.Creator, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.creators[id]
	if !ok {
		return nil, apperrors.NotFound("creator not found")
	}
	if bio, isStr := fields["bio"].(string); isStr {
		c.Bio = bio
	}
	if niche, isList := fields["niche"].([]string); isList {
		c.Niche = niche
	}
	r.store.creators[id] = c
	return &c, nil
}

func (r *CreatorRepo) Count(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.creators)), nil
}
