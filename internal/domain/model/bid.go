package model

// BidStatus values written by the hire workflow.
type BidStatus string

const (
	BidStatusAccepted BidStatus = "accepted"
	BidStatusDeclined BidStatus = "declined"
)

// AcceptedBid is the influencer service's answer to ACCEPT_BID.
type AcceptedBid struct {
	JobID        string  `json:"jobId"`
	InfluencerID string  `json:"influencerId"`
	BidID        string  `json:"bidId"`
	Price        float64 `json:"price"`
}

// PaymentRequest is the payload of PAY_BID.
type PaymentRequest struct {
	CreatorID    string  `json:"creatorId"`
	InfluencerID string  `json:"influencerId"`
	JobID        string  `json:"jobId"`
	BidID        string  `json:"bidId"`
	Amount       float64 `json:"amount"`
}

// CompletionNotice is the payload of MARK_COMPLETE.
type CompletionNotice struct {
	InfluencerID string  `json:"influencerId"`
	Amount       float64 `json:"amount"`
}

// BidAcceptance describes how the winning bid is marked once the hire exists.
type BidAcceptance struct {
	BidID         string `json:"bidId"`
	HiredID       string `json:"hiredId"`
	PaymentStatus bool   `json:"paymentStatus"`
}
