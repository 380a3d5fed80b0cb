// Profiling label helpers for Pyroscope and pprof.
package telemetry

import (
	"context"
	"maps"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Label keys shared across handlers and middleware.
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelRole       = "role"
	ProfilingLabelOperation  = "operation"
	// ProfilingLabelRegion marks code regions such as "db_query".
	ProfilingLabelRegion = "region"
)

// MaxLabelValueLength caps label values before they reach Pyroscope.
const MaxLabelValueLength = 128

// HighCardinalityLabels lists keys that sanitizeLabels drops outright.
// Per-request identifiers blow up series cardinality in Pyroscope.
// role stays allowed, it only takes customer or admin.
var HighCardinalityLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"order_id":   true,
	"trace_id":   true,
	"span_id":    true,
	"session_id": true,
}

// WithProfilingLabels runs fn with the given labels attached, so the
// samples collected inside can be sliced by them in the Pyroscope UI.
// The map is read once up front and may be reused by the caller.
//
//	telemetry.WithProfilingLabels(ctx, map[string]string{
//	    "controller": "OrderHandler",
//	    "operation":  "SubmitOrder",
//	}, func(c context.Context) {
//	    submitOrder(c)
//	})
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// WithPprofLabels is the same as WithProfilingLabels but goes through
// Go's native pprof label API, for when samples must stay readable by
// standard profiling tools without the Pyroscope SDK.
func WithPprofLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pprof.Do(ctx, pprof.Labels(pairs...), fn)
}

// ProfilingScope accumulates labels before running a function under
// them.
type ProfilingScope struct {
	labels map[string]string
}

// NewProfilingScope creates a scope seeded with a copy of labels.
func NewProfilingScope(labels map[string]string) *ProfilingScope {
	scope := &ProfilingScope{labels: make(map[string]string, len(labels))}
	maps.Copy(scope.labels, labels)
	return scope
}

// WithLabel adds one label and returns the scope for chaining.
func (s *ProfilingScope) WithLabel(key, value string) *ProfilingScope {
	s.labels[key] = value
	return s
}

func (s *ProfilingScope) WithController(controller string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelController, controller)
}

func (s *ProfilingScope) WithRoute(route string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelRoute, route)
}

func (s *ProfilingScope) WithMethod(method string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelMethod, method)
}

func (s *ProfilingScope) WithRole(role string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelRole, role)
}

func (s *ProfilingScope) WithOperation(operation string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelOperation, operation)
}

func (s *ProfilingScope) WithRegion(region string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelRegion, region)
}

// Labels returns a copy of the accumulated labels.
func (s *ProfilingScope) Labels() map[string]string {
	out := make(map[string]string, len(s.labels))
	maps.Copy(out, s.labels)
	return out
}

// Run executes fn under the accumulated labels.
func (s *ProfilingScope) Run(ctx context.Context, fn func(context.Context)) {
	WithProfilingLabels(ctx, s.labels, fn)
}

// sanitizeLabels flattens labels into the pair slice the profiling APIs
// take, in sorted key order. Empty keys and values, high-cardinality
// keys, and keys that sanitize to nothing are dropped; values longer
// than MaxLabelValueLength are truncated.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		if key == "" || value == "" || HighCardinalityLabels[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		key = sanitizeLabelKey(key)
		if key == "" {
			continue
		}
		pairs = append(pairs, key, value)
	}
	return pairs
}

// sanitizeLabelKey normalizes a key to snake_case, keeping only
// [a-z0-9_].
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r == ' ', r == '-':
			return '_'
		default:
			return -1
		}
	}, key)
}

// HTTPRequestLabels builds the label set the HTTP profiling middleware
// attaches per request. Empty components are left out.
func HTTPRequestLabels(controller, route, method, role string) map[string]string {
	labels := make(map[string]string, 4)
	if controller != "" {
		labels[ProfilingLabelController] = controller
	}
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}
	if role != "" {
		labels[ProfilingLabelRole] = role
	}
	return labels
}

// OperationLabels builds labels for a named operation plus any extras.
func OperationLabels(operation string, extraLabels map[string]string) map[string]string {
	labels := make(map[string]string, len(extraLabels)+1)
	labels[ProfilingLabelOperation] = operation
	maps.Copy(labels, extraLabels)
	return labels
}

// RegionLabels builds labels for a code region plus any extras.
func RegionLabels(region string, extraLabels map[string]string) map[string]string {
	labels := make(map[string]string, len(extraLabels)+1)
	labels[ProfilingLabelRegion] = region
	maps.Copy(labels, extraLabels)
	return labels
}
