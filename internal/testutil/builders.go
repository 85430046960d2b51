// Package testutil provides testing utilities and helpers for the creator service.
package testutil

import (
	"strings"

	"github.com/iynfluencer/creator-service/internal/domain/model"
)

// JobRequestBuilder provides a fluent interface for building CreateJobRequest objects for testing.
type JobRequestBuilder struct {
	req *model.CreateJobRequest
}

// NewJobRequest creates a new JobRequestBuilder with values that pass validation.
func NewJobRequest() *JobRequestBuilder {
	return &JobRequestBuilder{
		req: &model.CreateJobRequest{
			Title:            "Product launch",
			Description:      "Three short videos introducing the product.",
			Responsibilities: []string{"Record", "Publish"},
			Category:         []string{"tech"},
			BudgetFrom:       Float64Ptr(100),
			BudgetTo:         Float64Ptr(500),
			Duration:         IntPtr(14),
		},
	}
}

// WithTitle sets the job title.
func (b *JobRequestBuilder) WithTitle(title string) *JobRequestBuilder {
	b.req.Title = title
	return b
}

// WithBudget sets the budget range.
func (b *JobRequestBuilder) WithBudget(from, to float64) *JobRequestBuilder {
	b.req.BudgetFrom = Float64Ptr(from)
	b.req.BudgetTo = Float64Ptr(to)
	return b
}

// WithDuration sets the duration in days.
func (b *JobRequestBuilder) WithDuration(days int) *JobRequestBuilder {
	b.req.Duration = IntPtr(days)
	return b
}

// Build returns the constructed CreateJobRequest.
func (b *JobRequestBuilder) Build() *model.CreateJobRequest {
	return b.req
}

// JobBuilder builds stored jobs for seeding repositories.
type JobBuilder struct {
	job model.Job
}

// NewJob starts an available job owned by creatorID.
func NewJob(jobID, creatorID string) *JobBuilder {
	return &JobBuilder{job: model.Job{
		JobID:            jobID,
		CreatorID:        creatorID,
		Title:            "Product launch",
		Description:      "Three short videos introducing the product.",
		Responsibilities: []string{"Record"},
		BudgetFrom:       100,
		BudgetTo:         500,
		Duration:         14,
		Public:           true,
		Status:           model.JobStatusAvailable,
		CreatedAt:        TestTime(),
		UpdatedAt:        TestTime(),
	}}
}

// Suspended marks the job suspended.
func (b *JobBuilder) Suspended() *JobBuilder {
	b.job.Suspended = true
	return b
}

// HiredBy marks the job hired by influencerID through hiredID.
func (b *JobBuilder) HiredBy(influencerID, hiredID string) *JobBuilder {
	b.job.Hired = true
	b.job.InfluencerID = influencerID
	b.job.HiredID = hiredID
	return b
}

// WithStatus sets the job status.
func (b *JobBuilder) WithStatus(status model.JobStatus) *JobBuilder {
	b.job.Status = status
	return b
}

// Build returns a copy of the job.
func (b *JobBuilder) Build() *model.Job {
	job := b.job
	return &job
}

// NewCreatorRequest returns a creator request whose bio meets the minimum length.
func NewCreatorRequest(niche ...string) *model.CreateCreatorRequest {
	if len(niche) == 0 {
		niche = []string{"tech"}
	}
	return &model.CreateCreatorRequest{
		Bio:   strings.Repeat("I make short product videos. ", 5),
		Niche: niche,
	}
}
