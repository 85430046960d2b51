// Package metrics names the metrics the creator service emits and their tags.
package metrics

import (
	"time"

	obserrors "github.com/iynfluencer/creator-service/internal/observability/errors"
	"github.com/iynfluencer/creator-service/internal/observability/statsd"
)

// Result tag values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Result maps an error to a result tag.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// HireMetric describes one run of the hire workflow.
type HireMetric struct {
	Paid     bool
	Duration time.Duration
	Err      error
}

// EmitHire records a hire attempt and its duration.
func EmitHire(sink statsd.Sink, in HireMetric) {
	if sink == nil {
		return
	}
	mode := "plain"
	if in.Paid {
		mode = "paid"
	}
	tags := withError(map[string]string{"mode": mode, "result": Result(in.Err)}, in.Err)
	sink.Count("hire.attempt", 1, tags)
	if in.Duration > 0 {
		sink.Timing("hire.duration", in.Duration, CloneTags(tags))
	}
}

// EmitRemoteCall records one outbound command.
func EmitRemoteCall(sink statsd.Sink, cmd string, d time.Duration, err error) {
	if sink == nil {
		return
	}
	tags := withError(map[string]string{"cmd": cmd, "result": Result(err)}, err)
	sink.Count("rpc.call", 1, tags)
	sink.Timing("rpc.duration", d, CloneTags(tags))
}

// EmitRequest records one HTTP request by route pattern and status class.
func EmitRequest(sink statsd.Sink, route string, status int, d time.Duration) {
	if sink == nil {
		return
	}
	tags := map[string]string{"route": route, "status": statusClass(status)}
	sink.Count("http.request", 1, tags)
	sink.Timing("http.duration", d, CloneTags(tags))
}

func withError(tags map[string]string, err error) map[string]string {
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}
	return tags
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
