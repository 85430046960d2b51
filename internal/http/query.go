package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/iynfluencer/creator-service/internal/domain/query"
)

// comparison operators whose values are compared numerically when they parse as numbers.
var numericOps = map[string]bool{"gt": true, "gte": true, "lt": true, "lte": true}

// ParseQuery turns URL parameters into a nested map.
//
//	budgetFrom[gte]=100 -> {"budgetFrom": {"gte": 100}}
//	niche[]=a&niche[]=b -> {"niche": ["a", "b"]}
//	niche=a&niche=b     -> {"niche": ["a", "b"]}
//	niche[in]=a         -> {"niche": {"in": ["a"]}}
//	title=x             -> {"title": "x"}
//	hired=false         -> {"hired": false}
func ParseQuery(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for rawKey, vals := range values {
		if len(vals) == 0 {
			continue
		}
		field, sub, bracketed := splitBracket(rawKey)
		switch {
		case !bracketed:
			out[field] = scalarOrList(vals)
		case sub == "":
			out[field] = toList(vals)
		default:
			ops, _ := out[field].(map[string]any)
			if ops == nil {
				ops = make(map[string]any)
				out[field] = ops
			}
			v := scalarOrList(vals)
			if sub == "in" {
				v = toList(vals)
			}
			if s, isStr := v.(string); isStr && numericOps[sub] {
				v = numberOr(s)
			}
			ops[sub] = v
		}
	}
	return out
}

// ListParams normalizes the request's query string and clamps the page size.
// Missing page and limit take the defaults; page < 1 or limit <= 0 is rejected.
func ListParams(r *http.Request, maxLimit int) (query.Params, error) {
	params, err := query.Normalize(ParseQuery(r.URL.Query()), true)
	if err != nil {
		return query.Params{}, err
	}
	if params.Page < 1 || params.Limit < 1 {
		return query.Params{}, query.ErrInvalidPagination
	}
	if maxLimit > 0 && params.Limit > maxLimit {
		params.Limit = maxLimit
	}
	return params, nil
}

func splitBracket(key string) (field, sub string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

func scalarOrList(vals []string) any {
	if len(vals) == 1 {
		return coerce(vals[0], false)
	}
	return toList(vals)
}

func coerce(s string, numeric bool) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if numeric {
		return numberOr(s)
	}
	return s
}

func toList(vals []string) []any {
	list := make([]any, len(vals))
	for i, v := range vals {
		list[i] = v
	}
	return list
}

func numberOr(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
