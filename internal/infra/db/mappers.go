package db

import (
	"encoding/json"
	"log/slog"

	"github.com/webcraft-studio/webcraft-backend/internal/application/events"
)

func MapOutboxModelToSendMail(outbox Outbox) events.SendMail {
	var event events.SendMail
	if err := json.Unmarshal(outbox.Payload, &event); err != nil {
		slog.Error("err unmarshalling outbox payload", "id", outbox.ID, "err", err)
	}
	return event
}
