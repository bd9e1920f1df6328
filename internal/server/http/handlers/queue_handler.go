package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/posdesk/fulfillment/internal/domain/model"
	"github.com/posdesk/fulfillment/internal/server/http/dto"
	"github.com/posdesk/fulfillment/internal/usecase"
)

// QueueHandler manages digital queue endpoints.
type QueueHandler struct {
	facade QueueFacade
}

// NewQueueHandler constructs QueueHandler.
func NewQueueHandler(facade QueueFacade) *QueueHandler {
	return &QueueHandler{facade: facade}
}

// Join handles POST /api/queue/join.
func (h *QueueHandler) Join(c *gin.Context) {
	var req dto.JoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	entry, err := h.facade.JoinQueue(c.Request.Context(), usecase.JoinQueueInput{
		BranchID:      req.BranchID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PartySize:     req.PartySize,
		ServiceType:   model.ServiceType(req.ServiceType),
		OrderID:       req.OrderID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toQueueEntryResponse(*entry))
}

// Call handles PUT /api/queue/:id/call.
func (h *QueueHandler) Call(c *gin.Context) {
	h.transition(c, h.facade.CallQueueEntry)
}

// Serve handles PUT /api/queue/:id/serve.
func (h *QueueHandler) Serve(c *gin.Context) {
	h.transition(c, h.facade.ServeQueueEntry)
}

// Cancel handles DELETE /api/queue/:id.
func (h *QueueHandler) Cancel(c *gin.Context) {
	h.transition(c, h.facade.CancelQueueEntry)
}

func (h *QueueHandler) transition(c *gin.Context, op func(ctx context.Context, entryID int64) (*model.QueueEntry, error)) {
	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	entry, err := op(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQueueEntryResponse(*entry))
}

// Current handles GET /api/queue/current?branch_id=... — the queue board poll.
func (h *QueueHandler) Current(c *gin.Context) {
	branchID, ok := queryBranchID(c)
	if !ok {
		return
	}

	entries, err := h.facade.QueueActive(c.Request.Context(), branchID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.QueueEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, toQueueEntryResponse(e))
	}
	c.JSON(http.StatusOK, response)
}

// Stats handles GET /api/queue/stats?branch_id=...
func (h *QueueHandler) Stats(c *gin.Context) {
	branchID, ok := queryBranchID(c)
	if !ok {
		return
	}

	stats, err := h.facade.QueueStats(c.Request.Context(), branchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.QueueStatsResponse{
		WaitingCount:   stats.WaitingCount,
		CalledCount:    stats.CalledCount,
		ServedToday:    stats.ServedToday,
		AvgWaitMinutes: stats.AvgWaitMinutes,
	})
}

func queryBranchID(c *gin.Context) (int64, bool) {
	branchID, err := strconv.ParseInt(c.Query("branch_id"), 10, 64)
	if err != nil || branchID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch_id"})
		return 0, false
	}
	return branchID, true
}

func toQueueEntryResponse(entry model.QueueEntry) dto.QueueEntryResponse {
	return dto.QueueEntryResponse{
		ID:            entry.ID,
		BranchID:      entry.BranchID,
		QueueNumber:   entry.Number,
		CustomerName:  entry.CustomerName,
		CustomerPhone: entry.CustomerPhone,
		PartySize:     entry.PartySize,
		ServiceType:   string(entry.ServiceType),
		Status:        string(entry.Status),
		OrderID:       entry.OrderID,
		CreatedAt:     entry.CreatedAt,
		CalledAt:      entry.CalledAt,
		ServedAt:      entry.ServedAt,
	}
}
