package protocol

const (
	ActionSubscribe        = "subscribe"
	ActionUnsubscribe      = "unsubscribe"
	ActionUnsubscribeAll   = "unsubscribe_all"
	ActionSubscribeAlert   = "subscribe_alert"
	ActionUnsubscribeAlert = "unsubscribe_alert"
)

const (
	EventPriceUpdate    = "PRICE_UPDATE"
	EventAlertTriggered = "ALERT_TRIGGERED"
)

type WSRequest struct {
	Action  string         `json:"action"`
	Payload RequestPayload `json:"payload"`
	ID      string         `json:"id,omitempty"`
}

type RequestPayload struct {
	// subscribe / unsubscribe
	Symbols []string `json:"symbols,omitempty"`

	// subscribe_alert / unsubscribe_alert
	TickerID string  `json:"tickerId,omitempty"`
	Type     string  `json:"type,omitempty"` // "above" or "below"
	Price    float64 `json:"price,omitempty"`
}

type WSResponse struct {
	Type    string      `json:"type"`             // "ack", "error"
	ID      string      `json:"id,omitempty"`     // Matches request ID
	Status  string      `json:"status,omitempty"` // "success", "error"
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Event is the push envelope for server-initiated messages.
type Event struct {
	Type string      `json:"type"` // "PRICE_UPDATE", "ALERT_TRIGGERED"
	Data interface{} `json:"data"`
}
