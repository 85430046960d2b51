package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FilterMap maps a field to a literal or to an operator object such as {"gt": 5}.
type FilterMap map[string]any

// Clone returns a shallow copy.
func (f FilterMap) Clone() FilterMap {
	out := make(FilterMap, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Operators is the shorthand vocabulary rewritten into $-operators.
var Operators = []string{"gt", "lt", "lte", "gte", "ne", "eq", "in"}

func isOperator(word string) bool {
	for _, op := range Operators {
		if op == word {
			return true
		}
	}
	return false
}

// Translator rewrites the comparison shorthands of a filter. Implementations
// never modify their input.
type Translator interface {
	Translate(filter FilterMap) (FilterMap, error)
}

// Translator modes accepted by NewTranslator.
const (
	ModeToken = "token"
	ModeField = "field"
)

// NewTranslator returns the translator for mode. An empty mode is token mode.
func NewTranslator(mode string) (Translator, error) {
	switch mode {
	case "", ModeToken:
		return TokenTranslator{}, nil
	case ModeField:
		return FieldTranslator{}, nil
	default:
		return nil, fmt.Errorf("unknown filter mode %q", mode)
	}
}

var operatorToken = regexp.MustCompile(`\b(gt|lt|lte|gte|ne|eq|in)\b`)

// TokenTranslator serializes the whole filter and prefixes every standalone
// operator word with "$". Keys and string values anywhere in the structure are
// affected: a field named "eq" becomes "$eq" and the value "in" becomes "$in".
type TokenTranslator struct{}

// Translate implements Translator.
func (TokenTranslator) Translate(filter FilterMap) (FilterMap, error) {
	if len(filter) == 0 {
		return FilterMap{}, nil
	}
	raw, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	rewritten := operatorToken.ReplaceAll(raw, []byte("$$${1}"))

	dec := json.NewDecoder(bytes.NewReader(rewritten))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode filter: %w", err)
	}
	return FilterMap(normalizeNumbers(out).(map[string]any)), nil
}

// FieldTranslator rewrites operator keys only where they sit directly under a
// field, e.g. {"price": {"gt": 5}}. Field names and values are left untouched.
type FieldTranslator struct{}

// Translate implements Translator.
func (FieldTranslator) Translate(filter FilterMap) (FilterMap, error) {
	out := make(FilterMap, len(filter))
	for field, val := range filter {
		ops, ok := asMap(val)
		if !ok {
			out[field] = val
			continue
		}
		rewritten := make(map[string]any, len(ops))
		for op, operand := range ops {
			if isOperator(op) {
				op = "$" + op
			}
			rewritten[op] = operand
		}
		out[field] = rewritten
	}
	return out, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case FilterMap:
		return m, true
	}
	return nil, false
}

// normalizeNumbers converts json.Number leaves to int64 when integral and to
// float64 otherwise.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalizeNumbers(item)
		}
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// ByID matches a document by its ObjectID when id is one, or by the public id field.
func ByID(field, id string) FilterMap {
	alts := []any{map[string]any{field: id}}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		alts = append([]any{map[string]any{"_id": oid}}, alts...)
	}
	return FilterMap{"$or": alts}
}
