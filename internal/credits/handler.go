package credits

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Colman1000/tongues-of-fire/internal/audit"
	"github.com/Colman1000/tongues-of-fire/internal/shared/server/middleware"
	"github.com/Colman1000/tongues-of-fire/internal/shared/server/respond"
	"github.com/Colman1000/tongues-of-fire/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the credits service.
type Handler struct {
	Svc           *Service
	Audit         *audit.Recorder
	RechargeToken string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, rec *audit.Recorder, rechargeToken string) *Handler {
	return &Handler{Svc: svc, Audit: rec, RechargeToken: rechargeToken}
}

// RegisterRoutes attaches the balance route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/credits", h.balance)
}

// RegisterAdminRoutes attaches the recharge route. It sits behind its own
// token, separate from the API token.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireToken(h.RechargeToken))
	admin.POST("/recharge", h.recharge)
}

type rechargeRequest struct {
	Amount float64 `json:"amount"`
}

type rechargeResponse struct {
	Message           string  `json:"message"`
	NewAvailableUnits float64 `json:"newAvailableUnits"`
}

func (h *Handler) recharge(c *gin.Context) {
	var req rechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Amount <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "amount must be positive", nil)
		return
	}

	newBalance, err := h.Svc.Credit(c.Request.Context(), req.Amount)
	if err != nil {
		telemetry.Error("credits.recharge.failed", map[string]any{
			"err":        err.Error(),
			"amount":     req.Amount,
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to recharge credits", nil)
		return
	}

	h.Audit.Record(c.Request.Context(), middleware.ActorFromContext(c), audit.ActionCreditsRecharged, map[string]any{
		"amount":     req.Amount,
		"newBalance": newBalance,
	})

	respond.OK(c, rechargeResponse{
		Message:           "credits recharged",
		NewAvailableUnits: newBalance,
	})
}

type balanceResponse struct {
	AvailableUnits float64 `json:"availableUnits"`
}

func (h *Handler) balance(c *gin.Context) {
	balance, err := h.Svc.Balance(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read balance", nil)
		return
	}
	respond.OK(c, balanceResponse{AvailableUnits: balance})
}
