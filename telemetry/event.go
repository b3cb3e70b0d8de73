// Package telemetry emits best-effort behavioral events. Nothing here ever
// reports a failure back to the action that produced the event.
package telemetry

import (
	"encoding/json"

	"retailco/shopper/models"
)

// NewEvent serializes fields plus event_type into the eventData string.
func NewEvent(customerID int64, eventType string, fields map[string]any) models.TelemetryEvent {
	data := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		data[k] = v
	}
	data["event_type"] = eventType

	raw, err := json.Marshal(data)
	if err != nil {
		// Only unsupported values (channels, funcs) can fail; keep the type.
		raw, _ = json.Marshal(map[string]string{"event_type": eventType})
	}
	return models.TelemetryEvent{CustomerID: customerID, EventData: string(raw)}
}
