// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/scenes", "200"))

	ObserveHTTPRequest("GET", "/api/v1/scenes", 200, 25*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/scenes", "200"))
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestObserveUpstreamRequest(t *testing.T) {
	okBefore := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("findScenes", "success"))
	errBefore := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("findScenes", "error"))

	ObserveUpstreamRequest("findScenes", nil, 10*time.Millisecond)
	ObserveUpstreamRequest("findScenes", errors.New("boom"), 10*time.Millisecond)

	if got := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("findScenes", "success")); got != okBefore+1 {
		t.Errorf("success counter = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("findScenes", "error")); got != errBefore+1 {
		t.Errorf("error counter = %v, want %v", got, errBefore+1)
	}
}

func TestHistoryWritesLabels(t *testing.T) {
	// Every operation/status pair the history store emits must resolve
	// without a cardinality panic.
	for _, op := range []string{"record", "progress", "delete"} {
		for _, status := range []string{"ok", "error"} {
			before := testutil.ToFloat64(HistoryWritesTotal.WithLabelValues(op, status))
			HistoryWritesTotal.WithLabelValues(op, status).Inc()
			after := testutil.ToFloat64(HistoryWritesTotal.WithLabelValues(op, status))
			if after != before+1 {
				t.Errorf("counter(%s,%s) = %v, want %v", op, status, after, before+1)
			}
		}
	}
}
