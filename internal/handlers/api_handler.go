package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"design_portal/internal/effects"
	"design_portal/internal/lifecycle"
	"design_portal/internal/orchestrator"
	"design_portal/internal/repository"
	"design_portal/internal/services"
	"design_portal/internal/status"
)

type APIHandler struct {
	orderService     services.OrderService
	complaintService services.ComplaintService
}

func NewAPIHandler(orderService services.OrderService, complaintService services.ComplaintService) *APIHandler {
	return &APIHandler{
		orderService:     orderService,
		complaintService: complaintService,
	}
}

// GetStatusTables serves the canonical status tables for both domains.
// This is the one source the UI renders status names, labels and colors from.
func (h *APIHandler) GetStatusTables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"order":     status.OrderStatusTable(),
		"complaint": status.ComplaintStatusTable(),
	})
}

func (h *APIHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetByPublicID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondFetchError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// TransitionOrder requests one order status transition. The status field
// accepts either historical wire encoding (numeric code or string name).
func (h *APIHandler) TransitionOrder(c *gin.Context) {
	var req struct {
		Status       interface{} `json:"status" binding:"required"`
		Actor        string      `json:"actor" binding:"required"`
		Reason       string      `json:"reason"`
		SignatureURL string      `json:"signature_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	requested, err := status.ParseOrderStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, err := lifecycle.ParseActor(req.Actor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, result, err := h.orderService.RequestTransition(c.Request.Context(), c.Param("id"), requested, actor,
		orchestrator.OrderInput{Reason: req.Reason, SignatureURL: req.SignatureURL})
	if err != nil {
		respondTransitionError(c, err, result)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "result": result})
}

func (h *APIHandler) AssignDesigner(c *gin.Context) {
	var req struct {
		DesignerID  uint   `json:"designer_id" binding:"required"`
		ScheduledAt string `json:"scheduled_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	scheduledAt, err := parseTime(req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheduled_at"})
		return
	}
	task, err := h.orderService.AssignDesigner(c.Request.Context(), c.Param("id"), req.DesignerID, scheduledAt)
	if err != nil {
		respondFetchError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CheckWallet previews the amount a payment-bearing transition would capture
// against the wallet snapshot, before any dialog opens.
func (h *APIHandler) CheckWallet(c *gin.Context) {
	requested, err := status.ParseOrderStatus(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	check, err := h.orderService.CheckWallet(c.Request.Context(), c.Param("id"), requested)
	if err != nil {
		respondTransitionError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, check)
}

func (h *APIHandler) ListComplaints(c *gin.Context) {
	complaints, err := h.complaintService.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}
	c.JSON(http.StatusOK, complaints)
}

func (h *APIHandler) GetComplaint(c *gin.Context) {
	complaint, err := h.complaintService.GetByPublicID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondFetchError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (h *APIHandler) TransitionComplaint(c *gin.Context) {
	var req struct {
		Status interface{} `json:"status" binding:"required"`
		Actor  string      `json:"actor" binding:"required"`
		Reason string      `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	requested, err := status.ParseComplaintStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, err := lifecycle.ParseActor(req.Actor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, result, err := h.complaintService.RequestTransition(c.Request.Context(), c.Param("id"), requested, actor,
		orchestrator.ComplaintInput{Reason: req.Reason})
	if err != nil {
		respondTransitionError(c, err, result)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaint": complaint, "result": result})
}

// ReviewLineItems records accept/reject decisions per disputed product and
// returns the derived aggregate reason template for the approval form.
func (h *APIHandler) ReviewLineItems(c *gin.Context) {
	var req struct {
		Reviews []struct {
			DetailID    uint   `json:"detail_id" binding:"required"`
			Accepted    bool   `json:"accepted"`
			Description string `json:"description"`
		} `json:"reviews" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	reviews := make([]repository.DetailReview, 0, len(req.Reviews))
	for _, rv := range req.Reviews {
		reviews = append(reviews, repository.DetailReview{
			DetailID:    rv.DetailID,
			Accepted:    rv.Accepted,
			Description: rv.Description,
		})
	}
	aggregate, err := h.complaintService.ReviewLineItems(c.Request.Context(), c.Param("id"), reviews)
	if err != nil {
		respondTransitionError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"aggregate_reason": aggregate})
}

func (h *APIHandler) AttachEvidence(c *gin.Context) {
	var req struct {
		VideoURL string `json:"video_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := h.complaintService.AttachEvidence(c.Request.Context(), c.Param("id"), req.VideoURL); err != nil {
		respondTransitionError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "attached"})
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func respondFetchError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// respondTransitionError maps the error taxonomy onto HTTP statuses and
// always includes the per-step outcomes when part of a sequence completed.
func respondTransitionError(c *gin.Context, err error, result *orchestrator.Result) {
	body := gin.H{"error": err.Error()}
	if result != nil {
		body["result"] = result
	}

	var fe *lifecycle.InsufficientFundsError
	if errors.As(err, &fe) {
		body["shortfall"] = fe.Shortfall()
		c.JSON(http.StatusPaymentRequired, body)
		return
	}
	var ve *lifecycle.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}
	var te *effects.TransportError
	if errors.As(err, &te) {
		body["failed_step"] = te.Step
		body["completed_steps"] = te.Completed
		c.JSON(http.StatusBadGateway, body)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, body)
		return
	}
	c.JSON(http.StatusInternalServerError, body)
}
