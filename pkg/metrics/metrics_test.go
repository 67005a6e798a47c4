package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cbodonnell/pongd/pkg/game/types"
	"github.com/cbodonnell/pongd/pkg/messages"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_record(t *testing.T) {
	m := New()

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.FloodRejected()
	m.MessageReceived(messages.TypePing)
	m.MessageReceived(messages.TypePing)
	m.QueueSize(types.GameTypeRanked, 3)
	m.MatchCreated(types.GameTypeTournament)
	m.MatchCreated(types.GameTypeTournament)
	m.MatchClosed()
	m.ObserveTick(time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OpenConnections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FloodRejections))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesReceived.WithLabelValues("PING")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.QueuedParties.WithLabelValues("RANKED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.QueuedParties.WithLabelValues("TOURNAMENT")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MatchesCreated.WithLabelValues("TOURNAMENT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActiveMatches))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TickDuration))
}

func TestMetrics_nilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ConnectionOpened()
		m.ConnectionClosed()
		m.FloodRejected()
		m.MessageReceived(messages.TypeInput)
		m.QueueSize(types.GameTypeRanked, 1)
		m.MatchCreated(types.GameTypeRanked)
		m.MatchClosed()
		m.ObserveTick(time.Second)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.FloodRejected()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pongd_flood_rejections_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
