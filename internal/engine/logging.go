package engine

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (e *Engine) logEntry() *logrus.Entry {
	entry := e.log.WithComponent("engine").WithField("session_id", e.sessionID)
	if e.order != nil {
		entry = entry.WithField("side", string(e.order.Side()))
	}
	return entry
}

func newSessionID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	if len(raw) > 12 {
		return raw[:12]
	}
	return raw
}
