package controller

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"mailpulse/utils"
)

const livePushInterval = 5 * time.Second

// HandleLiveOverviewWS streams the account overview to a connected client on
// a fixed interval. The client authenticates with ?token=<access token>
// because browsers cannot set headers on websocket upgrades.
func (ac *AnalyticsController) HandleLiveOverviewWS(c *websocket.Conn) {
	defer c.Close()

	clientID := uuid.NewString()

	claims, err := utils.ParseJWTToken(c.Query("token"))
	if err != nil {
		ac.Logger.Printf("Live overview auth failed for client %s: %v", clientID, err)
		c.WriteJSON(map[string]string{"error": "Invalid or missing token"})
		return
	}
	userID := claims.UserID

	ac.Logger.Printf("Live overview client %s connected for user %d", clientID, userID)

	// Unblocks the push loop when the client goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), livePushInterval)
		defer cancel()

		report, err := ac.Stats.Overview(ctx, userID)
		if err != nil {
			ac.Logger.Printf("Live overview build failed for user %d: %v", userID, err)
			return true
		}
		if err := c.WriteJSON(report); err != nil {
			return false
		}
		return true
	}

	if !push() {
		return
	}

	ticker := time.NewTicker(livePushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			ac.Logger.Printf("Live overview client %s disconnected", clientID)
			return
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}
