package query

import (
	"bytes"
	"encoding/json"

	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

// Directive is the JSON form of a population request:
// {path, as, select, match, unwindType, sortPopulate, populate}.
type Directive struct {
	Path         string         `json:"path"`
	As           string         `json:"as,omitempty"`
	Select       []string       `json:"select,omitempty"`
	Match        map[string]any `json:"match,omitempty"`
	UnwindType   int            `json:"unwindType,omitempty"`
	SortPopulate string         `json:"sortPopulate,omitempty"`
	Populate     []Directive    `json:"populate,omitempty"`
}

// Node converts the directive tree into a PopulateNode tree.
func (d Directive) Node() PopulateNode {
	n := PopulateNode{
		Relation: d.Path,
		Alias:    d.As,
		Project:  d.Select,
		Unwind:   UnwindMode(d.UnwindType),
	}
	if len(d.Match) > 0 {
		n.Match = FilterMap(normalizeNumbers(d.Match).(map[string]any))
	}
	if d.SortPopulate != "" {
		n.Sort = ParseSort(d.SortPopulate)
	}
	for _, child := range d.Populate {
		n.Children = append(n.Children, child.Node())
	}
	return n
}

// ParseDirectives decodes a single directive or a list of them.
// The result still has to pass Compiler validation.
func ParseDirectives(data []byte) ([]PopulateNode, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var directives []Directive
	if data[0] == '{' {
		var single Directive
		if err := decodeStrict(data, &single); err != nil {
			return nil, err
		}
		directives = []Directive{single}
	} else if err := decodeStrict(data, &directives); err != nil {
		return nil, err
	}

	nodes := make([]PopulateNode, 0, len(directives))
	for _, d := range directives {
		nodes = append(nodes, d.Node())
	}
	return nodes, nil
}

func decodeStrict(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid populate directive")
	}
	return nil
}
