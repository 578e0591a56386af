package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"kes-exchange-go/internal/api"
	"kes-exchange-go/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Exchange is the set of operations the router needs from the service layer.
type Exchange interface {
	HealthCheck(ctx context.Context) error
	CreateUserProfile(ctx context.Context, payload models.UserPayload) (*models.User, error)
	GetUserProfile(ctx context.Context, id uint64) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id uint64, payload models.UserPayload) (*models.User, error)
	SearchUser(ctx context.Context, query string) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateListing(ctx context.Context, payload models.ListingPayload) (*models.Listing, error)
	GetListing(ctx context.Context, id uint64) (*models.Listing, error)
	CreateSwapRequest(ctx context.Context, payload models.SwapRequestPayload) (*models.SwapRequest, error)
	GetSwapRequest(ctx context.Context, id uint64) (*models.SwapRequest, error)
	CreateFeedback(ctx context.Context, payload models.FeedbackPayload) (*models.Feedback, error)
}

var _ Exchange = (*api.ExchangeService)(nil)

type ErrorResponse struct {
	Error string `json:"error"`
}

type KindResponse struct {
	Kind api.ErrorKind `json:"kind"`
	Msg  string        `json:"msg"`
}

type handler struct {
	svc Exchange
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(svc Exchange) *gin.Engine {
	h := &handler{svc: svc}

	r := gin.New()
	r.Use(gin.Recovery(), requestId(), accessLog())

	r.GET("/healthz", h.health)

	users := r.Group("/users")
	users.POST("", h.createUser)
	users.GET("", h.listUsers)
	users.GET("/search", h.searchUser)
	users.GET("/:id", h.getUser)
	users.PUT("/:id", h.updateUser)

	r.POST("/listings", h.createListing)
	r.GET("/listings/:id", h.getListing)

	r.POST("/swap-requests", h.createSwapRequest)
	r.GET("/swap-requests/:id", h.getSwapRequest)

	r.POST("/feedback", h.createFeedback)

	return r
}

func statusFor(kind api.ErrorKind) int {
	switch kind {
	case api.KindEmptyFields, api.KindInvalidEmail, api.KindInvalidPhoneNumber,
		api.KindInvalidQuery, api.KindInvalidRating, api.KindRecordTooLarge:
		return http.StatusBadRequest
	case api.KindUserNotFound, api.KindNotFound:
		return http.StatusNotFound
	case api.KindAlreadyExists:
		return http.StatusConflict
	case api.KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		status := statusFor(apiErr.Kind)
		if status == http.StatusInternalServerError {
			zap.L().Error("Request failed",
				zap.String("request_id", c.GetString(requestIdHeader)),
				zap.Error(err))
		}
		c.JSON(status, KindResponse{Kind: apiErr.Kind, Msg: apiErr.Msg})
		return
	}

	zap.L().Error("Unexpected error", zap.String("request_id", c.GetString(requestIdHeader)), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

func parseId(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id must be an unsigned integer"})
		return 0, false
	}
	return id, true
}

func bind(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

func (h *handler) health(c *gin.Context) {
	if err := h.svc.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) createUser(c *gin.Context) {
	var payload models.UserPayload
	if !bind(c, &payload) {
		return
	}
	user, err := h.svc.CreateUserProfile(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *handler) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *handler) searchUser(c *gin.Context) {
	users, err := h.svc.SearchUser(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *handler) getUser(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	user, err := h.svc.GetUserProfile(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handler) updateUser(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	var payload models.UserPayload
	if !bind(c, &payload) {
		return
	}
	user, err := h.svc.UpdateUserProfile(c.Request.Context(), id, payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handler) createListing(c *gin.Context) {
	var payload models.ListingPayload
	if !bind(c, &payload) {
		return
	}
	listing, err := h.svc.CreateListing(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *handler) getListing(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	listing, err := h.svc.GetListing(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *handler) createSwapRequest(c *gin.Context) {
	var payload models.SwapRequestPayload
	if !bind(c, &payload) {
		return
	}
	request, err := h.svc.CreateSwapRequest(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (h *handler) getSwapRequest(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	request, err := h.svc.GetSwapRequest(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *handler) createFeedback(c *gin.Context) {
	var payload models.FeedbackPayload
	if !bind(c, &payload) {
		return
	}
	feedback, err := h.svc.CreateFeedback(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, feedback)
}
