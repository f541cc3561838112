package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordMessage("signal")
	m.RecordMessage("signal")
	m.RecordMessage("method_call")
	m.RecordDropped()
	m.RecordMatch("bluetooth")
	m.RecordAction(KindSignal, OutcomeNotFound)
	m.RecordAction(KindExec, OutcomeOK)
	m.RecordAction(KindExec, OutcomeOK)
	m.ExecStarted()
	m.ExecStarted()
	m.ExecFinished()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesReceived.WithLabelValues("signal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesReceived.WithLabelValues("method_call")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignalsDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RuleMatches.WithLabelValues("bluetooth")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues(KindSignal, OutcomeNotFound)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Actions.WithLabelValues(KindExec, OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionsInFlight))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordMessage("signal")
		m.RecordDropped()
		m.RecordMatch("r")
		m.RecordAction(KindExec, OutcomeFailed)
		m.ExecStarted()
		m.ExecFinished()
	})
}

func TestServer(t *testing.T) {
	m := New()
	m.RecordMatch("bluetooth")

	srv, err := Listen("127.0.0.1:0", m)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan struct{})
	go func() {
		srv.Serve(ctx)
		close(served)
	}()

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `dbusevents_rules_matches_total{rule="bluetooth"} 1`))

	resp, err = http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case <-served:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenBadAddr(t *testing.T) {
	_, err := Listen("not-an-address", New())
	assert.Error(t, err)
}
