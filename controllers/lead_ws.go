package controller

import (
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"

	"tradelink/config"
	"tradelink/models"
	"tradelink/utils"
)

// LeadSummary is the payload pushed to subscribed sellers when a lead lands
// in one of their categories. It never carries buyer contact details.
type LeadSummary struct {
	LeadID   uint   `json:"lead_id"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	Budget   int    `json:"budget"`
}

// LeadFeed is an in-process hub of websocket subscribers keyed by seller.
// Delivery is best-effort; a failed write just drops the connection.
type LeadFeed struct {
	mu          sync.RWMutex
	subscribers map[*websocket.Conn]uint
}

func NewLeadFeed() *LeadFeed {
	return &LeadFeed{
		subscribers: make(map[*websocket.Conn]uint),
	}
}

func (f *LeadFeed) Subscribe(conn *websocket.Conn, sellerID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribers[conn] = sellerID
}

func (f *LeadFeed) Unsubscribe(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subscribers, conn)
}

// Publish pushes a summary to every subscribed seller in the distribution set
func (f *LeadFeed) Publish(summary LeadSummary, sellerIDs []uint) {
	targets := make(map[uint]struct{}, len(sellerIDs))
	for _, id := range sellerIDs {
		targets[id] = struct{}{}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for conn, sellerID := range f.subscribers {
		if _, ok := targets[sellerID]; !ok {
			continue
		}
		if err := conn.WriteJSON(summary); err != nil {
			log.Printf("Lead feed write failed for seller %d: %v", sellerID, err)
		}
	}
}

// HandleLeadFeedWS authenticates a seller connection and keeps it subscribed
// until the peer goes away. The first client message must carry the JWT.
func (lc *LeadController) HandleLeadFeedWS(conn *websocket.Conn) {
	defer conn.Close()

	var input struct {
		Token string `json:"token"`
	}

	if err := conn.ReadJSON(&input); err != nil {
		lc.Logger.Printf("Lead feed handshake failed: %v", err)
		return
	}

	claims, err := utils.ParseJWTToken(input.Token)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "Invalid or expired token"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, claims.UserID).Error; err != nil || !user.IsActive {
		_ = conn.WriteJSON(map[string]string{"error": "User not found"})
		return
	}

	lc.Feed.Subscribe(conn, user.ID)
	defer lc.Feed.Unsubscribe(conn)

	_ = conn.WriteJSON(map[string]string{"status": "subscribed"})

	// Block until the peer disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
