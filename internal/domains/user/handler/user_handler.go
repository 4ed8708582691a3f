package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-catalog/internal/domains/user/model"
	"library-catalog/internal/domains/user/service"
	"library-catalog/internal/shared/response"
	"library-catalog/internal/shared/utils"
)

type UserHandler struct {
	service service.ServiceInterface
}

func NewUserHandler(svc service.ServiceInterface) *UserHandler {
	return &UserHandler{service: svc}
}

// ════════════════════════════════════════════════════════════════
// SIGNUP: POST /signup/
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	u, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, u.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// LOGIN: POST /login/
// ════════════════════════════════════════════════════════════════

func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	var throttled *model.ThrottledError

	switch {
	case errors.As(err, &throttled):
		seconds := int(math.Ceil(throttled.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(seconds))
		response.TooManyRequests(c, throttled.Error())

	case errors.Is(err, model.ErrInvalidCredentials):
		response.Unauthorized(c, model.ErrInvalidCredentials.Error())

	default:
		response.FromError(c, err)
	}
}
