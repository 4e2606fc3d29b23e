package websocket

import (
	"context"
	"log"
	"time"

	"github.com/anjiri1684/eduplatform/models"
)

// Sender is the part of a websocket connection the hub writes to.
type Sender interface {
	WriteJSON(v interface{}) error
	Close() error
}

type StatusUpdate struct {
	TransactionID string               `json:"transactionId"`
	Status        models.PaymentStatus `json:"status"`
	PaidAt        *time.Time           `json:"paidAt,omitempty"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

type subscription struct {
	transactionID string
	conn          Sender
}

// Hub fans payment status changes out to the connections watching a
// transaction. The subscriber map is owned by the Run goroutine.
type Hub struct {
	register   chan subscription
	unregister chan subscription
	broadcast  chan StatusUpdate
	done       chan struct{}

	subscribers map[string]map[Sender]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:    make(chan subscription),
		unregister:  make(chan subscription),
		broadcast:   make(chan StatusUpdate, 256),
		done:        make(chan struct{}),
		subscribers: make(map[string]map[Sender]struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.subscribers {
				for conn := range conns {
					conn.Close()
				}
			}
			return
		case s := <-h.register:
			conns, ok := h.subscribers[s.transactionID]
			if !ok {
				conns = make(map[Sender]struct{})
				h.subscribers[s.transactionID] = conns
			}
			conns[s.conn] = struct{}{}
		case s := <-h.unregister:
			h.remove(s)
		case update := <-h.broadcast:
			for conn := range h.subscribers[update.TransactionID] {
				if err := conn.WriteJSON(update); err != nil {
					log.Printf("Error sending status update for %s: %v", update.TransactionID, err)
					conn.Close()
					h.remove(subscription{transactionID: update.TransactionID, conn: conn})
				}
			}
		}
	}
}

func (h *Hub) remove(s subscription) {
	conns, ok := h.subscribers[s.transactionID]
	if !ok {
		return
	}
	delete(conns, s.conn)
	if len(conns) == 0 {
		delete(h.subscribers, s.transactionID)
	}
}

func (h *Hub) Subscribe(transactionID string, conn Sender) {
	select {
	case h.register <- subscription{transactionID: transactionID, conn: conn}:
	case <-h.done:
	}
}

func (h *Hub) Unsubscribe(transactionID string, conn Sender) {
	select {
	case h.unregister <- subscription{transactionID: transactionID, conn: conn}:
	case <-h.done:
	}
}

// Publish never blocks the caller; updates are dropped when the hub is saturated.
func (h *Hub) Publish(update StatusUpdate) {
	select {
	case h.broadcast <- update:
	default:
		log.Printf("🔥 Status hub is full, dropping update for %s", update.TransactionID)
	}
}

// PaymentListener adapts the hub to the payment service's status listeners.
func (h *Hub) PaymentListener() func(models.Payment) {
	return func(p models.Payment) {
		h.Publish(StatusUpdate{
			TransactionID: p.TransactionID,
			Status:        p.Status,
			PaidAt:        p.PaidAt,
			UpdatedAt:     p.UpdatedAt,
		})
	}
}
