package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/vkarpenko/minibank/internal/service"
	"go.uber.org/zap"
)

type BalanceController struct {
	gateway service.Gateway
	logger  *zap.Logger
}

func NewBalanceController(gateway service.Gateway, logger *zap.Logger) *BalanceController {
	return &BalanceController{
		gateway: gateway,
		logger:  logger,
	}
}

type balanceResponse struct {
	Balance float64 `json:"balance"`
}

func (c *BalanceController) GetBalance(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Login string `json:"login"`
		OTP   string `json:"otp"`
	}

	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	balance, err := c.gateway.GetBalance(r.Context(), request.Login, request.OTP)
	if err != nil {
		c.writeError(w, request.Login, err)
		return
	}

	render.JSON(w, r, balanceResponse{Balance: balance})
}

func (c *BalanceController) Deposit(w http.ResponseWriter, r *http.Request) {
	login, code, amount, ok := c.decodeAmountRequest(w, r)
	if !ok {
		return
	}

	balance, err := c.gateway.Deposit(r.Context(), login, code, amount)
	if err != nil {
		c.writeError(w, login, err)
		return
	}

	render.JSON(w, r, balanceResponse{Balance: balance})
}

func (c *BalanceController) Withdraw(w http.ResponseWriter, r *http.Request) {
	login, code, amount, ok := c.decodeAmountRequest(w, r)
	if !ok {
		return
	}

	balance, err := c.gateway.Withdraw(r.Context(), login, code, amount)
	if err != nil {
		c.writeError(w, login, err)
		return
	}

	render.JSON(w, r, balanceResponse{Balance: balance})
}

func (c *BalanceController) decodeAmountRequest(w http.ResponseWriter, r *http.Request) (login, code string, amount float64, ok bool) {
	var request struct {
		Login  string  `json:"login"`
		OTP    string  `json:"otp"`
		Amount float64 `json:"amount"`
	}

	if err := render.DecodeJSON(r.Body, &request); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return "", "", 0, false
	}

	return request.Login, request.OTP, request.Amount, true
}

func (c *BalanceController) writeError(w http.ResponseWriter, login string, err error) {
	c.logger.Warn("Balance operation failed",
		zap.String("login", login),
		zap.Error(err))

	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrAccountNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, service.ErrSessionInvalid):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, service.ErrInvalidAmount):
		http.Error(w, "Invalid amount", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
