package query

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

// Compiler expands population trees into $lookup stages.
type Compiler struct {
	registry *Registry
}

// NewCompiler returns a compiler over reg, or over the default registry when reg is nil.
func NewCompiler(reg *Registry) *Compiler {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Compiler{registry: reg}
}

// Compile validates the whole tree and then emits its stages in order.
// Aliases must be unique across the tree because every alias becomes a field
// of the parent document.
func (c *Compiler) Compile(nodes []PopulateNode) (mongo.Pipeline, error) {
	if len(nodes) == 0 {
		return mongo.Pipeline{}, nil
	}
	if err := c.validate(nodes, make(map[string]struct{})); err != nil {
		return nil, err
	}

	out := mongo.Pipeline{}
	for _, n := range nodes {
		out = c.emit(out, n, "")
	}
	return out, nil
}

func (c *Compiler) validate(nodes []PopulateNode, aliases map[string]struct{}) error {
	for _, n := range nodes {
		if strings.TrimSpace(n.Relation) == "" {
			return apperrors.ValidationField("populate", "populate path is required")
		}
		rel, ok := c.registry.Lookup(n.Relation)
		if !ok {
			return apperrors.ValidationField("populate", "unknown relation "+n.Relation)
		}
		if !n.Unwind.Valid() {
			return apperrors.ValidationField("populate", "invalid unwind mode "+n.Unwind.String()+" for "+n.Relation)
		}

		as := n.As()
		if strings.HasPrefix(as, "$") || strings.Contains(as, ".") {
			return apperrors.ValidationField("populate", "invalid alias "+as)
		}
		if _, dup := aliases[as]; dup {
			return apperrors.ValidationField("populate", "duplicate alias "+as)
		}
		aliases[as] = struct{}{}

		if rel.Count && len(n.Children) > 0 {
			return apperrors.ValidationField("populate", "count relation "+n.Relation+" cannot have children")
		}
		if err := c.validate(n.Children, aliases); err != nil {
			return err
		}
	}
	return nil
}

// emit appends the stages for n. Relations are already known to exist.
func (c *Compiler) emit(out mongo.Pipeline, n PopulateNode, parentAlias string) mongo.Pipeline {
	rel, _ := c.registry.Lookup(n.Relation)
	as := n.As()

	localField := rel.LocalField
	if parentAlias != "" {
		localField = parentAlias + "." + rel.LocalField
	}

	inner := make(bson.A, 0, len(rel.Pipeline)+2)
	if len(n.Project) > 0 {
		projection := make(bson.D, 0, len(n.Project))
		for _, f := range n.Project {
			projection = append(projection, bson.E{Key: f, Value: 1})
		}
		inner = append(inner, bson.D{{Key: "$project", Value: projection}})
	}
	var match any = bson.D{}
	if len(n.Match) > 0 {
		match = map[string]any(n.Match)
	}
	inner = append(inner, bson.D{{Key: "$match", Value: match}})
	for _, stage := range rel.Pipeline {
		inner = append(inner, stage)
	}

	out = append(out, bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: rel.From},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: rel.ForeignField},
		{Key: "pipeline", Value: inner},
		{Key: "as", Value: as},
	}}})

	if rel.Count {
		return append(out, bson.D{{Key: "$addFields", Value: bson.D{
			{Key: as, Value: bson.D{{Key: "$size", Value: "$" + as}}},
		}}})
	}

	if n.Unwind != UnwindNone {
		out = append(out, bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + as},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}})
		if len(n.Sort) > 0 {
			out = append(out, bson.D{{Key: "$sort", Value: n.Sort.Document()}})
		}
	}

	// Children read from the embedded alias, so they go before it is flattened away.
	for _, child := range n.Children {
		out = c.emit(out, child, as)
	}

	if n.Unwind == UnwindFlatten {
		if len(n.Project) > 0 {
			hoisted := make(bson.D, 0, len(n.Project))
			for _, f := range n.Project {
				hoisted = append(hoisted, bson.E{Key: f, Value: "$" + as + "." + f})
			}
			out = append(out, bson.D{{Key: "$addFields", Value: hoisted}})
		}
		out = append(out, bson.D{{Key: "$project", Value: bson.D{{Key: as, Value: 0}}}})
	}
	return out
}
