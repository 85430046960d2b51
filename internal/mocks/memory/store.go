// Package memory provides in-memory fakes for the repository and transactor
// ports. The fakes share one Store so a transaction can roll back every
// write made through them.
package memory

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/query"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

// Compile-time conformance to the ports.
var (
	_ core.JobRepository     = (*JobRepo)(nil)
	_ core.HireRepository    = (*HireRepo)(nil)
	_ core.CreatorRepository = (*CreatorRepo)(nil)
	_ core.BidLedger         = (*BidLedger)(nil)
	_ core.Transactor        = (*Transactor)(nil)
)

// Bid is the state the ledger keeps for one bid.
type Bid struct {
	BidID         string
	JobID         string
	Status        model.BidStatus
	Hired         bool
	HiredID       string
	PaymentStatus bool
}

// Store holds every collection. Transactions run one at a time.
type Store struct {
	mu       sync.Mutex
	jobs     map[string]model.Job
	hires    map[string]model.Hire
	creators map[string]model.Creator
	bids     map[string]Bid
	users    map[string]string

	txMu sync.Mutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		jobs:     make(map[string]model.Job),
		hires:    make(map[string]model.Hire),
		creators: make(map[string]model.Creator),
		bids:     make(map[string]Bid),
		users:    make(map[string]string),
	}
}

type snapshot struct {
	jobs     map[string]model.Job
	hires    map[string]model.Hire
	creators map[string]model.Creator
	bids     map[string]Bid
	users    map[string]string
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		jobs:     cloneMap(s.jobs),
		hires:    cloneMap(s.hires),
		creators: cloneMap(s.creators),
		bids:     cloneMap(s.bids),
		users:    cloneMap(s.users),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = snap.jobs
	s.hires = snap.hires
	s.creators = snap.creators
	s.bids = snap.bids
	s.users = snap.users
}

// PutJob stores job as-is.
func (s *Store) PutJob(job model.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = job
}

// Job returns the stored job.
func (s *Store) Job(id string) (model.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	return job, ok
}

// PutHire stores hire as-is.
func (s *Store) PutHire(hire model.Hire) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hires[hire.HiredID] = hire
}

// Hires returns every stored hire ordered by hiredId.
func (s *Store) Hires() []model.Hire {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Hire, 0, len(s.hires))
	for _, h := range s.hires {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HiredID < out[j].HiredID })
	return out
}

// PutCreator stores creator as-is.
func (s *Store) PutCreator(creator model.Creator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creators[creator.CreatorID] = creator
}

// Creator returns the stored creator.
func (s *Store) Creator(id string) (model.Creator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.creators[id]
	return c, ok
}

// PutBid stores an open bid for jobID.
func (s *Store) PutBid(bidID, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids[bidID] = Bid{BidID: bidID, JobID: jobID}
}

// Bid returns the ledger state of bidID.
func (s *Store) Bid(id string) (Bid, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bids[id]
	return b, ok
}

// PutUser registers a user document with no creator linked.
func (s *Store) PutUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = ""
}

// UserCreatorID returns the creatorId linked on the user document.
func (s *Store) UserCreatorID(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID]
}

// Transactor serializes transactions and restores the store when fn fails.
type Transactor struct {
	store *Store
	calls int
	mu    sync.Mutex
}

// NewTransactor creates a transactor over store.
func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

// WithTx runs fn with exclusive access to the store's transaction slot.
func (t *Transactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// Calls reports how many transactions were started.
func (t *Transactor) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// lister matches documents the way the aggregation $match stage would for
// the operators the services use: equality, $or, $exists and $in.
type lister struct {
	mu   sync.Mutex
	last query.Request
	docs func() []model.Document
}

// LastRequest returns the most recent List request, or a Request holding the
// where and populate of the most recent Get.
func (l *lister) LastRequest() query.Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

func (l *lister) List(_ context.Context, req query.Request) (*model.Page[model.Document], error) {
	l.mu.Lock()
	l.last = req
	l.mu.Unlock()

	var matched []model.Document
	for _, doc := range l.docs() {
		if matches(doc, req.Where) && matches(doc, req.Params.Filter) {
			matched = append(matched, doc)
		}
	}
	page, limit := req.Params.Page, req.Params.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return model.NewPage(matched[start:end], total, page, limit), nil
}

func (l *lister) Get(_ context.Context, where query.FilterMap, populate []query.PopulateNode) (model.Document, error) {
	l.mu.Lock()
	l.last = query.Request{Where: where, Populate: populate}
	l.mu.Unlock()

	for _, doc := range l.docs() {
		if matches(doc, where) {
			return doc, nil
		}
	}
	return nil, apperrors.NotFound("document not found")
}

func matches(doc model.Document, filter query.FilterMap) bool {
	for key, want := range filter {
		if key == "$or" {
			alts, _ := want.([]any)
			ok := false
			for _, alt := range alts {
				if m, isMap := alt.(map[string]any); isMap && matches(doc, m) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
			continue
		}
		got, present := doc[key]
		if ops, isOps := want.(map[string]any); isOps {
			if !matchOps(got, present, ops) {
				return false
			}
			continue
		}
		if !present || !equal(got, want) {
			return false
		}
	}
	return true
}

func matchOps(got any, present bool, ops map[string]any) bool {
	for op, arg := range ops {
		switch op {
		case "$exists":
			if want, _ := arg.(bool); want != present {
				return false
			}
		case "$in":
			if !present || !containsAny(got, arg) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func containsAny(got, set any) bool {
	values := reflect.ValueOf(set)
	if values.Kind() != reflect.Slice {
		return false
	}
	gotItems := []any{got}
	if arr, ok := got.(bson.A); ok {
		gotItems = arr
	}
	for i := 0; i < values.Len(); i++ {
		for _, g := range gotItems {
			if equal(g, values.Index(i).Interface()) {
				return true
			}
		}
	}
	return false
}

func equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// toDocument renders v the way the driver would return it from an aggregate.
func toDocument(v any) model.Document {
	raw, err := bson.Marshal(v)
	if err != nil {
		//nolint:forbidigo // test fake; model types always marshal
		panic(err)
	}
	var doc model.Document
	if err := bson.Unmarshal(raw, &doc); err != nil {
		//nolint:forbidigo // test fake; model types always marshal
		panic(err)
	}
	return doc
}

func sortedDocs[V any](s *Store, pick func(*Store) map[string]V) []model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := pick(s)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	docs := make([]model.Document, 0, len(keys))
	for _, k := range keys {
		docs = append(docs, toDocument(m[k]))
	}
	return docs
}
