package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hire records a creator accepting an influencer's bid for a job.
type Hire struct {
	ObjectID         primitive.ObjectID `json:"_id,omitempty"    bson:"_id,omitempty"`
	HiredID          string             `json:"hiredId"          bson:"hiredId"`
	JobID            string             `json:"jobId"            bson:"jobId"`
	CreatorID        string             `json:"creatorId"        bson:"creatorId"`
	InfluencerID     string             `json:"influencerId"     bson:"influencerId"`
	BidID            string             `json:"bidId"            bson:"bidId"`
	Price            float64            `json:"price"            bson:"price"`
	Deadline         int                `json:"deadline"         bson:"deadline"`
	CreatorStatus    bool               `json:"creatorStatus"    bson:"creatorStatus"`
	InfluencerStatus bool               `json:"influencerStatus" bson:"influencerStatus"`
	CreatedAt        time.Time          `json:"createdAt"        bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"        bson:"updatedAt"`
}

// NewHire binds an accepted bid to its job. The deadline is the job's duration.
func NewHire(job *Job, bid AcceptedBid, now time.Time) *Hire {
	return &Hire{
		HiredID:      NewID(),
		JobID:        job.JobID,
		CreatorID:    job.CreatorID,
		InfluencerID: bid.InfluencerID,
		BidID:        bid.BidID,
		Price:        bid.Price,
		Deadline:     job.Duration,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
