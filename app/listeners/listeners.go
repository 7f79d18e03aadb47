// Package listeners wires domain events to their fan-out targets. Everything
// here is best-effort: a failed broadcast or queue push never affects the
// transaction that fired the event.
package listeners

import (
	"encoding/json"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/jobs"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/services"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/event"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/logger"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/queue"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/ws"
)

// Register subscribes the order-placed listeners: a WebSocket broadcast for
// live dashboards and a queued confirmation email for the buyer.
func Register(hub *ws.Hub, users *repositories.UserRepository) {
	event.Listen(services.OrderPlaced, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}

		broadcastOrder(hub, order)

		user, err := users.FindByID(order.UserID)
		if err != nil {
			logger.Warn("listeners: order confirmation skipped, user missing",
				"order_id", order.ID, "user_id", order.UserID)
			return
		}
		job := &jobs.OrderConfirmationJob{
			Email:      user.Email,
			OrderID:    order.ID,
			TotalPrice: order.TotalPrice.StringFixed(2),
			ItemCount:  len(order.OrderItems),
		}
		if err := queue.Dispatch(job); err != nil {
			logger.Warn("listeners: could not queue order confirmation",
				"order_id", order.ID, "error", err)
		}
	})
}

func broadcastOrder(hub *ws.Hub, order models.Order) {
	msg, err := json.Marshal(map[string]interface{}{
		"event":       services.OrderPlaced,
		"order_id":    order.ID,
		"user_id":     order.UserID,
		"total_price": order.TotalPrice.StringFixed(2),
		"item_count":  len(order.OrderItems),
	})
	if err != nil {
		return
	}
	hub.Broadcast <- msg
}
