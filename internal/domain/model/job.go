// Package model defines the core data types shared by the creator service layers.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobStatus is the lifecycle label stored on a job.
type JobStatus string

const (
	// JobStatusAvailable is the initial status; the job accepts bids.
	JobStatusAvailable JobStatus = "available"
	// JobStatusInProgress is set when a paid hire commits.
	JobStatusInProgress JobStatus = "In Progress"
	// JobStatusCompleted is set by the creator once work is done.
	JobStatusCompleted JobStatus = "Completed"
)

// Job is a creator's posting that influencers bid on.
type Job struct {
	ObjectID         primitive.ObjectID `json:"_id,omitempty"          bson:"_id,omitempty"`
	JobID            string             `json:"jobId"                  bson:"jobId"`
	CreatorID        string             `json:"creatorId"              bson:"creatorId"`
	Title            string             `json:"title"                  bson:"title"`
	Description      string             `json:"description"            bson:"description"`
	Responsibilities []string           `json:"responsibilities"       bson:"responsibilities"`
	Media            string             `json:"media,omitempty"        bson:"media,omitempty"`
	Category         []string           `json:"category,omitempty"     bson:"category,omitempty"`
	BudgetFrom       float64            `json:"budgetFrom"             bson:"budgetFrom"`
	BudgetTo         float64            `json:"budgetTo"               bson:"budgetTo"`
	Duration         int                `json:"duration"               bson:"duration"`
	Public           bool               `json:"public"                 bson:"public"`
	Hired            bool               `json:"hired"                  bson:"hired"`
	InfluencerID     string             `json:"influencerId,omitempty" bson:"influencerId,omitempty"`
	HiredID          string             `json:"hiredId,omitempty"      bson:"hiredId,omitempty"`
	Suspended        bool               `json:"suspended"              bson:"suspended"`
	Status           JobStatus          `json:"status"                 bson:"status"`
	Amount           float64            `json:"amount,omitempty"       bson:"amount,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"              bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"              bson:"updatedAt"`
}

// IsCompleted reports whether the creator already closed the job.
func (j *Job) IsCompleted() bool {
	return j.Status == JobStatusCompleted
}

// CreateJobRequest is the validated body for creating a job.
type CreateJobRequest struct {
	Title            string   `json:"title"            validate:"required,min=3"`
	Media            string   `json:"media,omitempty"  validate:"omitempty,min=1"`
	Category         []string `json:"category"         validate:"omitempty,dive,min=1"`
	Responsibilities []string `json:"responsibilities" validate:"required,dive,min=1"`
	BudgetFrom       *float64 `json:"budgetFrom"       validate:"required,gte=0"`
	BudgetTo         *float64 `json:"budgetTo"         validate:"required,gte=0"`
	Description      string   `json:"description"      validate:"required,min=10"`
	Duration         *int     `json:"duration"         validate:"required,gte=1"`
}

// NewJob builds a job owned by creatorID with schema defaults applied.
func NewJob(creatorID string, req *CreateJobRequest, now time.Time) *Job {
	job := &Job{
		JobID:            NewID(),
		CreatorID:        creatorID,
		Title:            req.Title,
		Description:      req.Description,
		Responsibilities: req.Responsibilities,
		Media:            req.Media,
		Category:         req.Category,
		Public:           true,
		Status:           JobStatusAvailable,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.BudgetFrom != nil {
		job.BudgetFrom = *req.BudgetFrom
	}
	if req.BudgetTo != nil {
		job.BudgetTo = *req.BudgetTo
	}
	if req.Duration != nil {
		job.Duration = *req.Duration
	}
	if job.Responsibilities == nil {
		job.Responsibilities = []string{}
	}
	return job
}

// UpdateJobRequest is a partial update; nil fields are left untouched.
type UpdateJobRequest struct {
	Title            *string  `json:"title,omitempty"            validate:"omitempty,min=3"`
	Media            *string  `json:"media,omitempty"            validate:"omitempty,min=1"`
	Category         []string `json:"category,omitempty"         validate:"omitempty,dive,min=1"`
	Responsibilities []string `json:"responsibilities,omitempty" validate:"omitempty,dive,min=1"`
	BudgetFrom       *float64 `json:"budgetFrom,omitempty"       validate:"omitempty,gte=0"`
	BudgetTo         *float64 `json:"budgetTo,omitempty"         validate:"omitempty,gte=0"`
	Description      *string  `json:"description,omitempty"      validate:"omitempty,min=10"`
	Duration         *int     `json:"duration,omitempty"         validate:"omitempty,gte=1"`
}

// Fields returns the document fields to $set, keyed by their stored names.
func (r *UpdateJobRequest) Fields() map[string]any {
	fields := make(map[string]any)
	if r == nil {
		return fields
	}
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Media != nil {
		fields["media"] = *r.Media
	}
	if r.Category != nil {
		fields["category"] = r.Category
	}
	if r.Responsibilities != nil {
		fields["responsibilities"] = r.Responsibilities
	}
	if r.BudgetFrom != nil {
		fields["budgetFrom"] = *r.BudgetFrom
	}
	if r.BudgetTo != nil {
		fields["budgetTo"] = *r.BudgetTo
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Duration != nil {
		fields["duration"] = *r.Duration
	}
	return fields
}

// SendJobRequest asks an influencer to take a specific job.
type SendJobRequest struct {
	JobID        string `json:"jobId"        validate:"required,min=1"`
	InfluencerID string `json:"influencerId" validate:"required,min=1"`
}

// JobRequestCommand is the payload of CREATE_JOB_REQUEST.
type JobRequestCommand struct {
	JobID         string `json:"jobId"`
	CreatorID     string `json:"creatorId"`
	CreatorUserID string `json:"creatorUserId"`
	InfluencerID  string `json:"influencerId"`
}
