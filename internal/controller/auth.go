package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/vkarpenko/minibank/internal/service"
	"go.uber.org/zap"
)

type AuthController struct {
	gateway service.Gateway
	logger  *zap.Logger
}

func NewAuthController(gateway service.Gateway, logger *zap.Logger) *AuthController {
	return &AuthController{
		gateway: gateway,
		logger:  logger,
	}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}

	if err := render.DecodeJSON(r.Body, &request); err != nil {
		c.logger.Debug("Invalid request format", zap.Error(err))
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := c.gateway.Register(r.Context(), request.Login, request.Password); err != nil {
		c.logger.Warn("Registration failed",
			zap.String("login", request.Login),
			zap.Error(err))

		switch {
		case errors.Is(err, service.ErrEmptyCredentials):
			http.Error(w, "Login and password are required", http.StatusBadRequest)
		case errors.Is(err, service.ErrUserAlreadyExists):
			http.Error(w, "Login already exists", http.StatusConflict)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}

	if err := render.DecodeJSON(r.Body, &request); err != nil {
		c.logger.Debug("Invalid request format", zap.Error(err))
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	code, err := c.gateway.Login(r.Context(), request.Login, request.Password)
	if err != nil {
		c.logger.Warn("Login failed",
			zap.String("login", request.Login),
			zap.Error(err))

		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			http.Error(w, "Invalid login or password", http.StatusUnauthorized)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, r, map[string]string{"otp": code})
}

func (c *AuthController) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Login       string `json:"login"`
		Password    string `json:"password"`
		NewPassword string `json:"new_password"`
	}

	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	err := c.gateway.UpdatePassword(r.Context(), request.Login, request.Password, request.NewPassword)
	if err != nil {
		c.logger.Warn("Password update failed",
			zap.String("login", request.Login),
			zap.Error(err))

		switch {
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		case errors.Is(err, service.ErrInvalidCredentials):
			http.Error(w, "Invalid login or password", http.StatusUnauthorized)
		case errors.Is(err, service.ErrEmptyCredentials):
			http.Error(w, "New password is required", http.StatusBadRequest)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (c *AuthController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Login    string `json:"login"`
		Password string `json:"password"`
		OTP      string `json:"otp"`
	}

	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	err := c.gateway.DeleteUser(r.Context(), request.Login, request.Password, request.OTP)
	if err != nil {
		c.logger.Warn("Account deletion failed",
			zap.String("login", request.Login),
			zap.Error(err))

		switch {
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrSessionInvalid):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Login string `json:"login"`
		OTP   string `json:"otp"`
	}

	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := c.gateway.Logout(r.Context(), request.Login, request.OTP); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrSessionInvalid):
			http.Error(w, "User or session not found", http.StatusNotFound)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
