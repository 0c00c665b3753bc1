package notifysvc

import (
	"context"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

// LogSink writes every event to the logger at info level.
type LogSink struct {
	logger core.Logger
}

var _ core.EventSink = (*LogSink)(nil)

func NewLogSink(logger core.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(_ context.Context, evt core.Event) {
	attrs := make(map[string]interface{}, len(evt.Attrs)+3)
	for k, v := range evt.Attrs {
		attrs[k] = v
	}
	if evt.OrganizationID != "" {
		attrs["organization"] = evt.OrganizationID
	}
	if evt.StudentID != "" {
		attrs["student"] = evt.StudentID
	}
	attrs["at"] = evt.OccurredAt
	s.logger.Info(evt.Kind, attrs)
}
