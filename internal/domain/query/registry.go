package query

import (
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/mongo"
)

// Relation describes how to join a related collection.
type Relation struct {
	Name         string
	From         string
	LocalField   string
	ForeignField string
	// Pipeline is appended to the join's inner pipeline after the match stage.
	Pipeline mongo.Pipeline
	// Count embeds the number of joined documents instead of the documents.
	Count bool
}

// Registry resolves relation names. It is immutable once built.
type Registry struct {
	relations map[string]Relation
}

// NewRegistry builds a registry, rejecting incomplete or duplicate relations.
func NewRegistry(relations ...Relation) (*Registry, error) {
	r := &Registry{relations: make(map[string]Relation, len(relations))}
	for _, rel := range relations {
		if rel.Name == "" || rel.From == "" || rel.LocalField == "" || rel.ForeignField == "" {
			return nil, fmt.Errorf("relation %q: name, from, localField and foreignField are required", rel.Name)
		}
		if _, dup := r.relations[rel.Name]; dup {
			return nil, fmt.Errorf("relation %q registered twice", rel.Name)
		}
		r.relations[rel.Name] = rel
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for static tables.
func MustNewRegistry(relations ...Relation) *Registry {
	r, err := NewRegistry(relations...)
	if err != nil {
		panic(err) //nolint:forbidigo // static relation tables are a programming error when invalid
	}
	return r
}

// Lookup returns the relation registered under name.
func (r *Registry) Lookup(name string) (Relation, bool) {
	rel, ok := r.relations[name]
	return rel, ok
}

// Names lists the registered relations in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.relations))
	for name := range r.relations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRelations is the relation table of the creator service.
var DefaultRelations = []Relation{
	{Name: "user", From: "users", LocalField: "userId", ForeignField: "userId"},
	{Name: "creator", From: "creators", LocalField: "creatorId", ForeignField: "creatorId"},
	{Name: "influencer", From: "influencers", LocalField: "influencerId", ForeignField: "influencerId"},
	{Name: "bidsCount", From: "bids", LocalField: "jobId", ForeignField: "jobId", Count: true},
	{Name: "review", From: "reviews", LocalField: "jobId", ForeignField: "jobId"},
	{Name: "bids", From: "bids", LocalField: "jobId", ForeignField: "jobId"},
	{Name: "bid", From: "bids", LocalField: "bidId", ForeignField: "bidId"},
	{Name: "job", From: "jobs", LocalField: "jobId", ForeignField: "jobId"},
}

// DefaultRegistry returns a registry over DefaultRelations.
func DefaultRegistry() *Registry {
	return MustNewRegistry(DefaultRelations...)
}
