// Package query turns loosely shaped listing requests into MongoDB aggregation plans.
//
// A request flows through four steps: Normalize splits the raw key/value map into
// filter, sort and paging controls; a Translator rewrites comparison shorthands
// into $-operators; the Compiler expands population directives into $lookup
// stages; the Builder composes the data and count pipelines.
package query

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

// Reserved keys are paging and display controls, never filters.
const (
	KeyPage   = "page"
	KeySort   = "sort"
	KeyLimit  = "limit"
	KeySelect = "select"
	KeySearch = "search"
)

// Defaults applied by Normalize when withDefaults is set.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ErrNotAMap is returned when the raw query is not a key/value structure.
var ErrNotAMap = apperrors.Validation("query must be a key/value map")

// Params is a normalized listing request.
type Params struct {
	Filter FilterMap
	Sort   SortSpec
	Page   int
	Limit  int
	// Select and Search are carried through but not applied by the aggregation path.
	Select []string
	Search string
}

// IsReserved reports whether key is one of the paging/display controls.
func IsReserved(key string) bool {
	switch key {
	case KeyPage, KeySort, KeyLimit, KeySelect, KeySearch:
		return true
	}
	return false
}

// Normalize splits raw into a filter, a sort spec and paging controls.
// With withDefaults, page and limit are defaulted only when the key is absent;
// explicit out-of-range values are left for the caller to reject.
// Accepted inputs are map[string]any, FilterMap, map[string]string,
// map[string][]string and url.Values. A nil input is an empty query.
func Normalize(raw any, withDefaults bool) (Params, error) {
	m, err := toMap(raw)
	if err != nil {
		return Params{}, err
	}

	p := Params{Filter: make(FilterMap, len(m))}
	var hasPage, hasLimit bool
	for key, val := range m {
		switch key {
		case KeyPage:
			hasPage = true
			if p.Page, err = intValue(key, val); err != nil {
				return Params{}, err
			}
		case KeyLimit:
			hasLimit = true
			if p.Limit, err = intValue(key, val); err != nil {
				return Params{}, err
			}
		case KeySort:
			p.Sort = ParseSort(strings.Join(stringList(val), ","))
		case KeySelect:
			p.Select = splitList(stringList(val))
		case KeySearch:
			if list := stringList(val); len(list) > 0 {
				p.Search = list[0]
			}
		default:
			p.Filter[key] = val
		}
	}

	if withDefaults {
		if !hasPage {
			p.Page = DefaultPage
		}
		if !hasLimit {
			p.Limit = DefaultLimit
		}
	}
	return p, nil
}

func toMap(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case FilterMap:
		return v, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, nil
	case url.Values:
		return fromMulti(v), nil
	case map[string][]string:
		return fromMulti(v), nil
	default:
		return nil, ErrNotAMap
	}
}

func fromMulti(v map[string][]string) map[string]any {
	out := make(map[string]any, len(v))
	for k, vals := range v {
		switch len(vals) {
		case 0:
			out[k] = ""
		case 1:
			out[k] = vals[0]
		default:
			list := make([]any, len(vals))
			for i, s := range vals {
				list[i] = s
			}
			out[k] = list
		}
	}
	return out
}

func intValue(key string, val any) (int, error) {
	invalid := apperrors.ValidationField(key, fmt.Sprintf("%s must be an integer", key))
	switch v := val.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, invalid
		}
		return int(v), nil
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, invalid
		}
		return n, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, invalid
		}
		return n, nil
	case []string:
		if len(v) == 0 {
			return 0, nil
		}
		return intValue(key, v[0])
	case []any:
		if len(v) == 0 {
			return 0, nil
		}
		return intValue(key, v[0])
	default:
		return 0, invalid
	}
}

// stringList flattens a scalar or list value into its string parts.
func stringList(val any) []string {
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func splitList(parts []string) []string {
	var out []string
	for _, part := range parts {
		for _, f := range strings.Split(part, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	}
	return out
}
