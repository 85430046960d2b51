package query

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// CreatedAtField is the tie-breaker appended to every sort, newest first.
const CreatedAtField = "createdAt"

// SortField is one sort key.
type SortField struct {
	Field string
	Desc  bool
}

// SortSpec is an ordered list of sort keys.
type SortSpec []SortField

// ParseSort parses "price,-age" into [price asc, age desc]. Blank entries are skipped.
func ParseSort(s string) SortSpec {
	var spec SortSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		field := strings.TrimSpace(strings.TrimPrefix(part, "-"))
		if field == "" {
			continue
		}
		spec = append(spec, SortField{Field: field, Desc: desc})
	}
	return spec
}

// Document renders the spec as a $sort document. A repeated field keeps its first
// position and its last direction. createdAt is always last and descending.
func (s SortSpec) Document() bson.D {
	doc := make(bson.D, 0, len(s)+1)
	index := make(map[string]int, len(s))
	for _, f := range s {
		if f.Field == CreatedAtField {
			continue
		}
		dir := 1
		if f.Desc {
			dir = -1
		}
		if i, ok := index[f.Field]; ok {
			doc[i].Value = dir
			continue
		}
		index[f.Field] = len(doc)
		doc = append(doc, bson.E{Key: f.Field, Value: dir})
	}
	return append(doc, bson.E{Key: CreatedAtField, Value: -1})
}

// String renders the spec back into its query form.
func (s SortSpec) String() string {
	parts := make([]string, len(s))
	for i, f := range s {
		if f.Desc {
			parts[i] = "-" + f.Field
		} else {
			parts[i] = f.Field
		}
	}
	return strings.Join(parts, ",")
}
