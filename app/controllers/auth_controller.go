package controllers

import (
	"net/http"
	"strings"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/resources"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/services"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/bind"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/resource"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	IsVendor bool   `json:"is_vendor"`
}

// Register handles POST /api/users/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.Register(in.Username, in.Email, in.Password, in.IsVendor)
	if err != nil {
		respondError(w, err)
		return
	}

	resource.New(user, resources.User).Respond(w, http.StatusCreated)
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/users/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.auth.Login(in.Username, in.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"user":          resources.User(user),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    pair.TokenType,
	})
}

// Logout handles POST /api/users/logout (authenticated).
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	if err := c.auth.Logout(id.UserID); err != nil {
		respondError(w, err)
		return
	}
	response.NoContent(w)
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh handles POST /api/users/token/refresh.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	pair, err := c.auth.Refresh(in.RefreshToken)
	if err != nil {
		respondError(w, err)
		return
	}
	response.Success(w, pair)
}

// Verify handles GET /api/users/verify?token=...
func (c *AuthController) Verify(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		respondError(w, apperr.New(apperr.ErrValidation, "Missing verification token"))
		return
	}
	if err := c.auth.VerifyEmail(token); err != nil {
		respondError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Email verified"})
}

type resendInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendVerification handles POST /api/users/verify/resend.
func (c *AuthController) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var in resendInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if err := c.auth.ResendVerification(in.Email); err != nil {
		respondError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Verification email sent"})
}

// Me handles GET /api/users/me (authenticated).
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	user, err := c.auth.Me(id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.New(user, resources.User).Respond(w)
}
