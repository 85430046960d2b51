package testutil

import (
	"testing"
)

func TestDefaultTestMongoConfig(t *testing.T) {
	t.Run("defaults to local test replica set on port 57017", func(t *testing.T) {
		t.Setenv("TEST_MONGO_URI", "")
		t.Setenv("TEST_MONGO_DB_PREFIX", "")

		cfg := DefaultTestMongoConfig()
		if cfg.URI != "mongodb://localhost:57017/?directConnection=true" {
			t.Errorf("unexpected default URI %s", cfg.URI)
		}
		if cfg.Prefix != "creator_test" {
			t.Errorf("expected Prefix=creator_test, got %s", cfg.Prefix)
		}
	})

	t.Run("respects TEST_MONGO_URI environment variable", func(t *testing.T) {
		t.Setenv("TEST_MONGO_URI", "mongodb://mongo:27017/?replicaSet=rs0")
		t.Setenv("TEST_MONGO_DB_PREFIX", "ci")

		cfg := DefaultTestMongoConfig()
		if cfg.URI != "mongodb://mongo:27017/?replicaSet=rs0" {
			t.Errorf("expected CI URI, got %s", cfg.URI)
		}
		if cfg.Prefix != "ci" {
			t.Errorf("expected Prefix=ci, got %s", cfg.Prefix)
		}
	})
}

func TestNewCreatorRequestBioLength(t *testing.T) {
	if got := len(NewCreatorRequest().Bio); got < 100 {
		t.Errorf("bio length %d is below the minimum", got)
	}
}

func TestJobBuilder(t *testing.T) {
	job := NewJob("j-1", "c-1").HiredBy("i-1", "h-1").Build()
	if !job.Hired || job.HiredID != "h-1" || job.InfluencerID != "i-1" {
		t.Errorf("unexpected hired job %+v", job)
	}
	if NewJob("j-2", "c-1").Suspended().Build().Suspended != true {
		t.Errorf("expected suspended job")
	}
}
