package models

// TelemetryEvent is the body POSTed to the event-ingestion service.
// EventData is a serialized JSON object that always carries "event_type".
type TelemetryEvent struct {
	CustomerID int64  `json:"customerId"`
	EventData  string `json:"eventData"`
}

const (
	EventPageView  = "page_view"
	EventLogin     = "login"
	EventSearch    = "search"
	EventAddToCart = "add_to_cart"
	EventPurchase  = "purchase"
)
