package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rapid-steno/crm-sync/logger"
	"rapid-steno/crm-sync/models"
)

// LeadStore is what the ingest API needs from storage. db.Store implements it.
type LeadStore interface {
	UpsertLead(ctx context.Context, lead *models.Lead) (string, error)
	InsertActivity(ctx context.Context, rec *models.ActivityRecord) error
}

type Handler struct {
	store LeadStore
}

func NewHandler(store LeadStore) *Handler {
	return &Handler{store: store}
}

// UpsertLead handles POST /api/leads. The body is one lead; email decides
// insert vs update.
func (h *Handler) UpsertLead(c *gin.Context) {
	var lead models.Lead
	if err := c.ShouldBindJSON(&lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid lead payload: " + err.Error()})
		return
	}

	lead.Email = strings.ToLower(strings.TrimSpace(lead.Email))
	if lead.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email is required"})
		return
	}
	if !lead.SubscriptionPlan.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid subscription_plan: " + string(lead.SubscriptionPlan)})
		return
	}

	id, err := h.store.UpsertLead(c.Request.Context(), &lead)
	if err != nil {
		logger.Get().Error("failed to upsert lead",
			zap.String("email", lead.Email),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Error upserting lead"})
		return
	}

	logger.Get().Info("upserted lead", zap.String("email", lead.Email), zap.String("id", id))
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// CreateActivity handles POST /api/activities. A duplicate of the natural key
// answers 409 with the unique-violation code so clients can treat it as
// already synced.
func (h *Handler) CreateActivity(c *gin.Context) {
	var rec models.ActivityRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid activity payload: " + err.Error()})
		return
	}

	if rec.LeadID == "" || rec.PageName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user_id and page_name are required"})
		return
	}

	err := h.store.InsertActivity(c.Request.Context(), &rec)
	if err != nil {
		if models.IsConflict(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   err.Error(),
				"code":    models.UniqueViolationCode,
			})
			return
		}
		logger.Get().Error("failed to insert activity",
			zap.String("lead_id", rec.LeadID),
			zap.String("page", rec.PageName),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Error inserting activity"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
