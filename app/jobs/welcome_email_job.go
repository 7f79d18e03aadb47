package jobs

import (
	"fmt"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/mail"
)

// WelcomeEmailJob greets the user once their email address is confirmed.
type WelcomeEmailJob struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (j *WelcomeEmailJob) Handle() error {
	return mail.To(j.Email).
		Subject("Your account is ready").
		Body(fmt.Sprintf(`<p>Hi %s, your email is verified and your account is fully active. Happy shopping!</p>`, j.Username)).
		Send()
}
