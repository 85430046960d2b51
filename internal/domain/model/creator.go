package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Creator is the profile that owns jobs.
type Creator struct {
	ObjectID  primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	CreatorID string             `json:"creatorId"     bson:"creatorId"`
	UserID    string             `json:"userId"        bson:"userId"`
	Niche     []string           `json:"niche"         bson:"niche"`
	Bio       string             `json:"bio"           bson:"bio"`
	Completed bool               `json:"completed"     bson:"completed"`
	Suspended bool               `json:"suspended"     bson:"suspended"`
	CreatedAt time.Time          `json:"createdAt"     bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"     bson:"updatedAt"`
}

// CreateCreatorRequest is the validated body for creating a creator profile.
type CreateCreatorRequest struct {
	Bio   string   `json:"bio"   validate:"required,min=100"`
	Niche []string `json:"niche" validate:"required,min=1"`
}

// NewCreator builds the profile for userID with schema defaults applied.
func NewCreator(userID string, req *CreateCreatorRequest, now time.Time) *Creator {
	return &Creator{
		CreatorID: NewID(),
		UserID:    userID,
		Niche:     req.Niche,
		Bio:       req.Bio,
		Completed: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateCreatorRequest is a partial profile update.
type UpdateCreatorRequest struct {
	Bio   *string  `json:"bio,omitempty"   validate:"omitempty,min=100"`
	Niche []string `json:"niche,omitempty" validate:"omitempty,min=1"`
}

// Fields returns the document fields to $set.
func (r *UpdateCreatorRequest) Fields() map[string]any {
	fields := make(map[string]any)
	if r == nil {
		return fields
	}
	if r.Bio != nil {
		fields["bio"] = *r.Bio
	}
	if r.Niche != nil {
		fields["niche"] = r.Niche
	}
	return fields
}

// CreatorAdminPage pairs a page of creators with the total number of profiles.
type CreatorAdminPage[T any] struct {
	Page        *Page[T] `json:"paginatedCamp"`
	TotalAmount int64    `json:"totalAmount"`
}
