package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/anjiri1684/eduplatform/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

func (h *Handler) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// canWatch applies the payment ownership rule to the claims of a socket token.
func canWatch(claims jwt.MapClaims, p *models.Payment) bool {
	role, _ := claims["role"].(string)
	raw, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(raw)
	if err != nil {
		userID = uuid.Nil
	}
	return mayAccess(userID, role, p)
}

// PaymentStatusSocket streams status changes of one payment. The first frame
// must be {"type":"auth","token":"<jwt>"}.
func (h *Handler) PaymentStatusSocket(c *websocketcontrib.Conn) {
	transactionID := c.Params("transactionId")
	defer c.Close()

	var auth authMessage
	if err := c.ReadJSON(&auth); err != nil || auth.Type != "auth" {
		log.Printf("WebSocket auth failed for %s: invalid or missing auth message, error: %v", transactionID, err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		return
	}
	claims, err := h.parseToken(auth.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		return
	}

	payment, err := h.Payments.GetPaymentStatus(context.Background(), transactionID)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Payment not found"})
		return
	}
	if !canWatch(claims, payment) {
		_ = c.WriteJSON(fiber.Map{"error": "Forbidden"})
		return
	}

	conn := &lockedConn{conn: c}
	h.Hub.Subscribe(transactionID, conn)
	defer h.Hub.Unsubscribe(transactionID, conn)

	// Re-read after subscribing so a change in between is not lost. If the hub
	// has already pushed something newer, lockedConn drops this snapshot.
	if fresh, err := h.Payments.GetPaymentStatus(context.Background(), transactionID); err == nil {
		payment = fresh
	}
	if err := conn.WriteJSON(websocket.StatusUpdate{
		TransactionID: payment.TransactionID,
		Status:        payment.Status,
		PaidAt:        payment.PaidAt,
		UpdatedAt:     payment.UpdatedAt,
	}); err != nil {
		return
	}

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Printf("WebSocket read error for %s: %v", transactionID, err)
			}
			return
		}
	}
}

// lockedConn serialises writes; the hub and the handler both write to the
// socket. Status updates older than one already sent are dropped.
type lockedConn struct {
	mu   sync.Mutex
	conn jsonConn
	sent time.Time
}

type jsonConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

func (l *lockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if u, ok := v.(websocket.StatusUpdate); ok {
		if u.UpdatedAt.Before(l.sent) {
			return nil
		}
		l.sent = u.UpdatedAt
	}
	return l.conn.WriteJSON(v)
}

func (l *lockedConn) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.Close()
}
