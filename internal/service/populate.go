package service

import "github.com/iynfluencer/creator-service/internal/domain/query"

// Population trees used by the listing and detail endpoints.

var userCard = []string{"firstName", "lastName", "avatar", "country"}

func creatorWithUser() query.PopulateNode {
	return query.PopulateNode{
		Relation: "creator",
		Project:  []string{"creatorId", "userId"},
		Unwind:   query.Unwind,
		Children: []query.PopulateNode{{Relation: "user", Project: userCard, Unwind: query.Unwind}},
	}
}

func influencerWithUser() query.PopulateNode {
	return query.PopulateNode{
		Relation: "influencer",
		Project:  []string{"influencerId", "userId"},
		Children: []query.PopulateNode{{Relation: "user", Project: []string{"firstName", "lastName", "avatar"}}},
	}
}

func rel(names ...string) []query.PopulateNode {
	nodes := make([]query.PopulateNode, len(names))
	for i, n := range names {
		nodes[i] = query.PopulateNode{Relation: n}
	}
	return nodes
}

// scopedByID matches a document by ObjectID or public id, restricted to owner.
func scopedByID(idField, id, ownerField, owner string) query.FilterMap {
	where := query.ByID(idField, id)
	if ownerField != "" {
		where[ownerField] = owner
	}
	return where
}
