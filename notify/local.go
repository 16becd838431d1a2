package notify

import (
	"context"

	"go.uber.org/zap"
)

// Local is the no-network binding: events are logged and acknowledged
// immediately. Used for the local-only demo mode and as the default when
// no dispatcher is configured.
type Local struct {
	log *zap.Logger
}

func NewLocal(log *zap.Logger) *Local {
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{log: log}
}

func (l *Local) Notify(_ context.Context, ev Event) Outcome {
	l.log.Info("event recorded locally",
		zap.String("kind", string(ev.Kind())),
		zap.String("title", ev.Title()))
	return Outcome{Delivered: true, Message: "Request recorded locally"}
}
