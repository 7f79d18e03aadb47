package jobs

import (
	"fmt"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/notification"
)

// OrderConfirmationJob notifies the buyer after checkout commits. It runs on
// the queue so a slow SMTP server never holds up an order response.
type OrderConfirmationJob struct {
	Email      string `json:"email"`
	OrderID    uint   `json:"order_id"`
	TotalPrice string `json:"total_price"`
	ItemCount  int    `json:"item_count"`
}

func (j *OrderConfirmationJob) Handle() error {
	errs := notification.Send(j.Email, &orderPlacedNotification{job: j})
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// orderPlacedNotification delivers the confirmation over the mail channel.
type orderPlacedNotification struct {
	job *OrderConfirmationJob
}

func (n *orderPlacedNotification) Via() []string { return []string{"mail"} }

func (n *orderPlacedNotification) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("Order #%d confirmed", n.job.OrderID),
		Body: fmt.Sprintf(
			`<p>Thanks for your order! We received %d item(s) for a total of %s.</p>`,
			n.job.ItemCount, n.job.TotalPrice),
	}
}
