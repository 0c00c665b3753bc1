package notifysvc

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

type recordingLogger struct {
	core.NopLogger
	msgs []string
	args [][]interface{}
}

func (l *recordingLogger) Info(msg string, args ...interface{}) {
	l.msgs = append(l.msgs, msg)
	l.args = append(l.args, args)
}

func TestLogSink_Emit(t *testing.T) {
	logger := new(recordingLogger)
	sink := NewLogSink(logger)

	sink.Emit(context.Background(), core.Event{
		Kind:           core.EventCreatureAssigned,
		OrganizationID: "org1",
		StudentID:      "s1",
		Attrs:          map[string]interface{}{"creature": "Pikachu"},
	})

	if assert.Len(t, logger.msgs, 1) {
		assert.Equal(t, core.EventCreatureAssigned, logger.msgs[0])
		attrs := logger.args[0][0].(map[string]interface{})
		assert.Equal(t, "Pikachu", attrs["creature"])
		assert.Equal(t, "org1", attrs["organization"])
		assert.Equal(t, "s1", attrs["student"])
	}
}

func TestPrometheusSink_Emit(t *testing.T) {
	sink := NewPrometheusSink()
	ctx := context.Background()

	sink.Emit(ctx, core.Event{Kind: core.EventLedgerCredited, Attrs: map[string]interface{}{"amount": int64(20), "reason": "duplicate-creature"}})
	sink.Emit(ctx, core.Event{Kind: core.EventLedgerDebited, Attrs: map[string]interface{}{"amount": int64(1), "reason": "wheel-spin"}})
	sink.Emit(ctx, core.Event{Kind: core.EventWheelSpun, Attrs: map[string]interface{}{"outcome": "new_creature"}})
	sink.Emit(ctx, core.Event{Kind: core.EventWheelSpun, Attrs: map[string]interface{}{"outcome": "new_creature"}})

	assert.Equal(t, float64(1), testutil.ToFloat64(sink.events.WithLabelValues(core.EventLedgerCredited)))
	assert.Equal(t, float64(2), testutil.ToFloat64(sink.events.WithLabelValues(core.EventWheelSpun)))
	assert.Equal(t, float64(20), testutil.ToFloat64(sink.coins.WithLabelValues("credit", "duplicate-creature")))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.coins.WithLabelValues("debit", "wheel-spin")))
	assert.Equal(t, float64(2), testutil.ToFloat64(sink.spins.WithLabelValues("new_creature")))

	rec := httptest.NewRecorder()
	sink.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "pokeayman_wheel_spins_total")
}
