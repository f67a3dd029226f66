// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// getGaugeValue extracts the value from a Prometheus gauge
func getGaugeValue(gauge prometheus.Gauge) float64 {
	var m io_prometheus_client.Metric
	if err := gauge.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func TestRecordSecurityEvent(t *testing.T) {
	c := SecurityEventsTotal.WithLabelValues("auth.failed_login", "medium", "failure")
	before := testutil.ToFloat64(c)

	RecordSecurityEvent("auth.failed_login", "medium", "failure")
	RecordSecurityEvent("auth.failed_login", "medium", "failure")

	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("security_events_total delta = %v, want 2", got)
	}
}

func TestRecordNotification(t *testing.T) {
	ok := NotificationsTotal.WithLabelValues("webhook", "success")
	failed := NotificationsTotal.WithLabelValues("webhook", "failure")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordNotification("webhook", nil, 20*time.Millisecond)
	RecordNotification("webhook", errors.New("timeout"), time.Second)

	if testutil.ToFloat64(ok)-okBefore != 1 {
		t.Error("expected one successful notification")
	}
	if testutil.ToFloat64(failed)-failedBefore != 1 {
		t.Error("expected one failed notification")
	}
}

func TestGauges(t *testing.T) {
	SetBlockedAddresses(7)
	if got := getGaugeValue(BlockedAddresses); got != 7 {
		t.Errorf("blocked addresses = %v, want 7", got)
	}

	SetEventStoreSize(42)
	if got := getGaugeValue(EventStoreSize); got != 42 {
		t.Errorf("event store size = %v, want 42", got)
	}

	before := getGaugeValue(APIActiveRequests)
	TrackActiveRequest(true)
	if got := getGaugeValue(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := getGaugeValue(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestRecordRiskEvaluation(t *testing.T) {
	c := RiskEvaluationsTotal.WithLabelValues("high", "true")
	before := testutil.ToFloat64(c)
	RecordRiskEvaluation("high", true)
	if testutil.ToFloat64(c)-before != 1 {
		t.Error("expected cached high evaluation to be counted")
	}
}
