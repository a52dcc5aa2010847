package sink

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/clambin/go-common/http/metrics"
	"github.com/clambin/go-common/http/roundtripper"
)

// NewMetrics creates the metrics for requests sent to the light bridge. The caller must register them.
func NewMetrics(namespace string) metrics.RequestMetrics {
	return metrics.NewRequestMetrics(metrics.Options{
		Namespace: namespace,
		Subsystem: "bridge",
		LabelValues: func(req *http.Request, statusCode int) (string, string, string) {
			return req.Method, bridgePath(req.URL.Path), strconv.Itoa(statusCode)
		},
	})
}

// bridgePath drops the target from a modifier path, so the number of series doesn't grow with the number of rooms.
func bridgePath(path string) string {
	for _, c := range []string{"/zones/", "/rooms/"} {
		if i := strings.LastIndex(path, c); i >= 0 {
			return path[:i+len(c)-1]
		}
	}
	return path
}

func instrumentedTransport(next http.RoundTripper, m metrics.RequestMetrics) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if m == nil {
		return next
	}
	return roundtripper.New(
		roundtripper.WithRequestMetrics(m),
		roundtripper.WithRoundTripper(next),
	)
}
