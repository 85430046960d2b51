package data

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iynfluencer/creator-service/internal/core"
	"github.com/iynfluencer/creator-service/internal/domain/model"
	"github.com/iynfluencer/creator-service/internal/domain/query"
	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

var _ core.JobRepository = (*JobRepo)(nil)

// JobRepo provides database operations for jobs.
type JobRepo struct {
	collection
}

// NewJobRepo creates a new JobRepo over the jobs collection.
func NewJobRepo(db *mongo.Database, builder *query.Builder) *JobRepo {
	return &JobRepo{collection: newCollection(db, CollectionJobs, builder)}
}

// NewJobRepoWithTimeProvider creates a JobRepo with a custom time provider (useful for tests).
func NewJobRepoWithTimeProvider(db *mongo.Database, builder *query.Builder, tp TimeProvider) *JobRepo {
	r := NewJobRepo(db, builder)
	r.timeProvider = tp
	return r
}

// Create inserts job and records its ObjectID.
func (r *JobRepo) Create(ctx context.Context, job *model.Job) error {
	if job == nil {
		return ErrNilDocument
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = r.now()
		job.UpdatedAt = job.CreatedAt
	}

	res, err := r.coll.InsertOne(ctx, job)
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("insert job: %w", err))
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		job.ObjectID = oid
	}
	return nil
}

// FindByID loads a job by ObjectID or jobId.
func (r *JobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	var job model.Job
	if err := r.coll.FindOne(ctx, query.ByID("jobId", id)).Decode(&job); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &job, nil
}

// Update sets fields on the job and returns the updated document.
func (r *JobRepo) Update(ctx context.Context, id string, fields map[string]any) (*model.Job, error) {
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}
	set := bson.M{"updatedAt": r.now()}
	for k, v := range fields {
		set[k] = v
	}
	return r.findOneAndSet(ctx, query.ByID("jobId", id), set)
}

// Delete removes the job.
func (r *JobRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, query.ByID("jobId", id))
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("delete job: %w", err))
	}
	if res.DeletedCount == 0 {
		return apperrors.MapDBError(mongo.ErrNoDocuments)
	}
	return nil
}

// MarkHired binds the job to the hire. The filter carries the not-hired and
// not-suspended precondition, so of two concurrent hires only one can match.
// Inside a transaction the loser may instead hit a write conflict on the job
// document; that is reported as core.ErrJobTaken too.
func (r *JobRepo) MarkHired(ctx context.Context, p core.MarkHiredParams) (*model.Job, error) {
	set := bson.M{
		"hired":        true,
		"hiredId":      p.HiredID,
		"influencerId": p.InfluencerID,
		"updatedAt":    r.now(),
	}
	if p.Paid {
		set["status"] = model.JobStatusInProgress
		set["amount"] = p.Amount
	}

	filter := bson.M{"jobId": p.JobID, "hired": false, "suspended": false}
	job, err := r.findOneAndSet(ctx, filter, set)
	if apperrors.IsNotFound(err) || isWriteConflict(err) {
		return nil, core.ErrJobTaken
	}
	return job, err
}

// SetStatus moves the job to status.
func (r *JobRepo) SetStatus(ctx context.Context, id string, status model.JobStatus) (*model.Job, error) {
	return r.findOneAndSet(ctx, query.ByID("jobId", id), bson.M{"status": status, "updatedAt": r.now()})
}

func (r *JobRepo) findOneAndSet(ctx context.Context, filter any, set bson.M) (*model.Job, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var job model.Job
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.MapDBError(err)
		}
		return nil, apperrors.MapDBError(fmt.Errorf("update job: %w", err))
	}
	return &job, nil
}
