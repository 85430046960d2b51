package model

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// PublicIDLength is the length of the public identifiers (jobId, hiredId, creatorId).
const PublicIDLength = 12

// NewID returns a URL-safe public identifier.
func NewID() string {
	id, err := gonanoid.New(PublicIDLength)
	if err != nil {
		// gonanoid only fails when crypto/rand is unavailable.
		panic(err) //nolint:forbidigo // no meaningful recovery without a random source
	}
	return id
}
