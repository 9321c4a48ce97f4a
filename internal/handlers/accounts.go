package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"slidecast-backend/internal/models"
	"slidecast-backend/internal/services"
)

// Accounts is the signup and signin surface of services.AccountService.
type Accounts interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Signin(ctx context.Context, email, password string) (string, *models.User, error)
}

type AccountsHandler struct {
	accounts Accounts
	logger   zerolog.Logger
}

func NewAccountsHandler(accounts Accounts, logger zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{
		accounts: accounts,
		logger:   logger.With().Str("component", "accounts").Logger(),
	}
}

// Signup godoc
// @Summary     Register a user
// @Description Creates an account. Email and username must both be unused.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.SignupRequest true "Account details"
// @Success     201 {object} models.SignupResponse
// @Failure     400 {object} models.ValidationErrorResponse
// @Failure     409 {object} models.MessageResponse
// @Failure     500 {object} models.MessageResponse
// @Router      /signup [post]
func (h *AccountsHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ValidationErrorResponse{
			Message: "Validation errors",
			Errors:  bindingErrors(err),
		})
		return
	}

	user, err := h.accounts.Signup(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			c.JSON(http.StatusConflict, models.MessageResponse{Message: "Email or username already exists"})
			return
		}
		status := models.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error().Err(err).Msg("signup failed")
		}
		c.JSON(status, models.MessageResponse{Message: statusMessage(status)})
		return
	}

	c.JSON(http.StatusCreated, models.SignupResponse{
		Message:  "User successfully registered",
		UserID:   user.ID.String(),
		Username: user.Username,
	})
}

// Signin godoc
// @Summary     Sign in
// @Description Exchanges email and password for a bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.SigninRequest true "Credentials"
// @Success     200 {object} models.SigninResponse
// @Failure     400 {object} models.MsgResponse
// @Failure     401 {object} models.MsgResponse
// @Failure     500 {object} models.MessageResponse
// @Router      /signin [post]
func (h *AccountsHandler) Signin(c *gin.Context) {
	var req models.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ValidationErrorResponse{
			Message: "Validation errors",
			Errors:  bindingErrors(err),
		})
		return
	}

	token, user, err := h.accounts.Signin(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.SigninResponse{Token: token, UserID: user.ID.String()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusUnauthorized, models.MsgResponse{Msg: "user not found"})
	case errors.Is(err, services.ErrIncorrectPassword):
		c.JSON(http.StatusBadRequest, models.MsgResponse{Msg: "incorrect password"})
	default:
		status := models.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error().Err(err).Msg("signin failed")
		}
		c.JSON(status, models.MessageResponse{Message: statusMessage(status)})
	}
}

// statusMessage is the body text for a status picked by models.HTTPStatus.
func statusMessage(status int) string {
	if status == http.StatusInternalServerError {
		return "Internal server error"
	}
	return http.StatusText(status)
}
