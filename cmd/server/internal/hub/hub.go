package hub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/alerts"
	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/protocol"
	"github.com/WagdySamih/Trading-Dashboard/pkg/models"
)

type ClientInterface interface {
	ID() string
	SendJSON(v interface{})
	SendBytes(b []byte)
	Close()
}

// TickerDirectory is the read side of the instrument table the hub
// validates subscriptions against and snapshots from.
type TickerDirectory interface {
	Exists(id string) bool
	Get(id string) (models.Ticker, bool)
}

// AlertRegistry is the hub's handle on the alert engine, used for
// registration commands and for the disconnect cascade.
type AlertRegistry interface {
	Register(sub alerts.Subscription)
	Cancel(sub alerts.Subscription)
	CancelAll(subscriberID string)
}

// Hub maintains per-connection interest sets and routes price updates
// to exactly the interested connections. Alert notifications go to the
// owning connection only.
type Hub struct {
	directory TickerDirectory
	alerts    AlertRegistry
	logger    *zap.Logger

	mu          sync.RWMutex
	subscribers map[string]map[ClientInterface]bool // ticker -> interested clients
	clientSubs  map[ClientInterface]map[string]bool // reverse index
	byID        map[string]ClientInterface          // connection id -> client
}

func NewHub(directory TickerDirectory, alertRegistry AlertRegistry, logger *zap.Logger) *Hub {
	return &Hub{
		directory:   directory,
		alerts:      alertRegistry,
		logger:      logger,
		subscribers: make(map[string]map[ClientInterface]bool),
		clientSubs:  make(map[ClientInterface]map[string]bool),
		byID:        make(map[string]ClientInterface),
	}
}

// Register adds a freshly-connected client with an empty interest set.
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.byID[client.ID()] = client
	h.clientSubs[client] = make(map[string]bool)
}

func (h *Hub) HandleCommand(client ClientInterface, req protocol.WSRequest) {
	switch req.Action {
	case protocol.ActionSubscribe:
		h.handleSubscribe(client, req)
	case protocol.ActionUnsubscribe:
		h.handleUnsubscribe(client, req)
	case protocol.ActionUnsubscribeAll:
		h.handleUnsubscribeAll(client, req)
	case protocol.ActionSubscribeAlert:
		h.handleSubscribeAlert(client, req)
	case protocol.ActionUnsubscribeAlert:
		h.handleUnsubscribeAlert(client, req)
	default:
		h.sendError(client, req.ID, "Unknown action: "+req.Action)
	}
}

func (h *Hub) handleSubscribe(client ClientInterface, req protocol.WSRequest) {
	h.mu.Lock()

	var valid []string
	for _, s := range req.Payload.Symbols {
		if h.directory.Exists(s) {
			// Idempotency: Ignore if already subscribed
			if h.clientSubs[client] != nil && h.clientSubs[client][s] {
				continue
			}
			valid = append(valid, s)
		}
	}

	if len(valid) == 0 {
		h.mu.Unlock()
		h.sendError(client, req.ID, "No valid/new symbols provided")
		return
	}

	if h.clientSubs[client] == nil {
		h.clientSubs[client] = make(map[string]bool)
		h.byID[client.ID()] = client
	}

	for _, sym := range valid {
		h.clientSubs[client][sym] = true
		if h.subscribers[sym] == nil {
			h.subscribers[sym] = make(map[ClientInterface]bool)
		}
		h.subscribers[sym][client] = true
	}
	h.mu.Unlock()

	h.sendAck(client, req.ID, "success", fmt.Sprintf("Subscribed to %v", valid))

	// Immediate snapshot per newly-subscribed ticker, so the client
	// does not wait for the next tick to see a price.
	for _, sym := range valid {
		if t, ok := h.directory.Get(sym); ok {
			client.SendJSON(protocol.Event{
				Type: protocol.EventPriceUpdate,
				Data: models.PriceUpdate{
					TickerID:      t.ID,
					Price:         t.CurrentPrice,
					Change:        t.Change,
					ChangePercent: t.ChangePercent,
					Timestamp:     time.Now(),
				},
			})
		}
	}
}

func (h *Hub) handleUnsubscribe(client ClientInterface, req protocol.WSRequest) {
	h.mu.Lock()

	var removed []string
	if subs, ok := h.clientSubs[client]; ok {
		for _, sym := range req.Payload.Symbols {
			if subs[sym] {
				delete(subs, sym)
				h.dropInterestLocked(sym, client)
				removed = append(removed, sym)
			}
		}
	}
	h.mu.Unlock()

	if len(removed) > 0 {
		h.sendAck(client, req.ID, "success", fmt.Sprintf("Unsubscribed from %v", removed))
	} else {
		h.sendError(client, req.ID, fmt.Sprintf("Not subscribed to: %v", req.Payload.Symbols))
	}
}

func (h *Hub) handleUnsubscribeAll(client ClientInterface, req protocol.WSRequest) {
	h.mu.Lock()
	if subs, ok := h.clientSubs[client]; ok {
		for sym := range subs {
			h.dropInterestLocked(sym, client)
		}
		// Clear the map but keep the client registered
		h.clientSubs[client] = make(map[string]bool)
	}
	h.mu.Unlock()

	h.sendAck(client, req.ID, "success", "Unsubscribed from all symbols")
}

func (h *Hub) handleSubscribeAlert(client ClientInterface, req protocol.WSRequest) {
	sub, errMsg := h.alertFromRequest(client, req)
	if errMsg != "" {
		h.sendError(client, req.ID, errMsg)
		return
	}

	h.alerts.Register(sub)
	h.sendAck(client, req.ID, "success",
		fmt.Sprintf("Alert set: %s %s %.2f", sub.TickerID, sub.Direction, sub.Price))
}

func (h *Hub) handleUnsubscribeAlert(client ClientInterface, req protocol.WSRequest) {
	sub, errMsg := h.alertFromRequest(client, req)
	if errMsg != "" {
		h.sendError(client, req.ID, errMsg)
		return
	}

	h.alerts.Cancel(sub)
	h.sendAck(client, req.ID, "success",
		fmt.Sprintf("Alert removed: %s %s %.2f", sub.TickerID, sub.Direction, sub.Price))
}

func (h *Hub) alertFromRequest(client ClientInterface, req protocol.WSRequest) (alerts.Subscription, string) {
	p := req.Payload
	if !h.directory.Exists(p.TickerID) {
		return alerts.Subscription{}, "Unknown ticker: " + p.TickerID
	}
	direction := alerts.Direction(p.Type)
	if !direction.Valid() {
		return alerts.Subscription{}, "Alert type must be 'above' or 'below'"
	}
	if p.Price <= 0 {
		return alerts.Subscription{}, "Alert price must be positive"
	}
	return alerts.Subscription{
		SubscriberID: client.ID(),
		TickerID:     p.TickerID,
		Direction:    direction,
		Price:        p.Price,
	}, ""
}

// Unregister removes the client's interest set and cancels its alert
// subscriptions. Both happen under the hub lock, so a tick arriving
// during teardown cannot deliver to the connection mid-removal.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	if subs, ok := h.clientSubs[client]; ok {
		for sym := range subs {
			h.dropInterestLocked(sym, client)
		}
		delete(h.clientSubs, client)
	}
	delete(h.byID, client.ID())
	h.alerts.CancelAll(client.ID())
	h.mu.Unlock()

	client.Close()
}

// PublishPriceUpdate delivers the update to every connection currently
// interested in its ticker. The payload is marshalled once.
func (h *Hub) PublishPriceUpdate(update models.PriceUpdate) {
	payload, err := json.Marshal(protocol.Event{Type: protocol.EventPriceUpdate, Data: update})
	if err != nil {
		h.logger.Error("Failed to marshal price update", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.subscribers[update.TickerID]; ok {
		for client := range clients {
			client.SendBytes(payload)
		}
	}
}

// PublishAlertFired delivers a fired alert to its owning connection
// only. Unknown connection ids are dropped silently; the connection may
// have raced a disconnect.
func (h *Hub) PublishAlertFired(connID string, alert models.AlertTriggered) {
	h.mu.RLock()
	client, ok := h.byID[connID]
	h.mu.RUnlock()

	if !ok {
		h.logger.Debug("Dropping alert for unknown connection", zap.String("conn_id", connID))
		return
	}
	client.SendJSON(protocol.Event{Type: protocol.EventAlertTriggered, Data: alert})
}

// dropInterestLocked removes one (ticker, client) interest edge. Caller
// holds h.mu.
func (h *Hub) dropInterestLocked(symbol string, client ClientInterface) {
	delete(h.subscribers[symbol], client)
	if len(h.subscribers[symbol]) == 0 {
		delete(h.subscribers, symbol)
	}
}

func (h *Hub) sendAck(c ClientInterface, id, status, msg string) {
	c.SendJSON(protocol.WSResponse{Type: "ack", ID: id, Status: status, Message: msg})
}

func (h *Hub) sendError(c ClientInterface, id, msg string) {
	c.SendJSON(protocol.WSResponse{Type: "error", ID: id, Message: msg})
}
