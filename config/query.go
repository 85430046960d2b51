package config

import "strings"

const defaultQueryMaxLimit = 100

// QueryConfig controls how listing requests become aggregation plans.
type QueryConfig struct {
	// FilterMode is "token" (operator tokens inside values) or "field"
	// (bracketed operator keys such as budgetFrom[gt]).
	FilterMode string `env:"QUERY_FILTER_MODE" envDefault:"token"`

	// ConsistentCount reads the page and the total in one $facet.
	ConsistentCount bool `env:"QUERY_CONSISTENT_COUNT" envDefault:"false"`

	// MaxLimit clamps the page size a client may request.
	MaxLimit int `env:"QUERY_MAX_LIMIT" envDefault:"100"`
}

// Sanitize applies guardrails to query configuration values.
func (q *QueryConfig) Sanitize() {
	q.FilterMode = strings.ToLower(strings.TrimSpace(q.FilterMode))
	if q.MaxLimit < 1 {
		q.MaxLimit = defaultQueryMaxLimit
	}
}
