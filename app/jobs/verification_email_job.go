// Package jobs defines the queued background jobs. Each job is registered by
// name at boot so the queue can rebuild it from its JSON payload.
package jobs

import (
	"fmt"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/config"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/mail"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/queue"
)

// VerificationEmailJob sends the email-verification link after registration.
type VerificationEmailJob struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func (j *VerificationEmailJob) Handle() error {
	link := fmt.Sprintf("%s/api/users/verify?token=%s", config.AppURL(), j.Token)
	return mail.To(j.Email).
		Subject("Verify your email").
		Body(fmt.Sprintf(`<p>Welcome! Confirm your address by opening <a href="%s">this link</a>. It expires in 48 hours.</p>`, link)).
		Send()
}

// Register wires every job type into the queue registry. Call once at boot.
func Register() {
	queue.Register("*jobs.VerificationEmailJob", func() queue.Job { return &VerificationEmailJob{} })
	queue.Register("*jobs.WelcomeEmailJob", func() queue.Job { return &WelcomeEmailJob{} })
	queue.Register("*jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
}
