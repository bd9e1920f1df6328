package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/posdesk/fulfillment/internal/domain/model"
	"github.com/posdesk/fulfillment/internal/server/http/dto"
)

// KitchenHandler manages kitchen display endpoints.
type KitchenHandler struct {
	facade KitchenFacade
}

// NewKitchenHandler constructs KitchenHandler.
func NewKitchenHandler(facade KitchenFacade) *KitchenHandler {
	return &KitchenHandler{facade: facade}
}

// Start handles POST /api/tickets/:id/start.
func (h *KitchenHandler) Start(c *gin.Context) {
	ticketID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ticket, err := h.facade.StartTicket(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toTicketResponse(*ticket))
}

// Complete handles POST /api/tickets/:id/complete.
func (h *KitchenHandler) Complete(c *gin.Context) {
	ticketID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ticket, err := h.facade.CompleteTicket(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toTicketResponse(*ticket))
}

// List handles GET /api/kitchen/tickets?status=... — the kitchen display poll.
func (h *KitchenHandler) List(c *gin.Context) {
	status := model.TicketStatus(c.DefaultQuery("status", string(model.TicketStatusPending)))
	switch status {
	case model.TicketStatusPending, model.TicketStatusPreparing, model.TicketStatusCompleted, model.TicketStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown ticket status"})
		return
	}

	tickets, err := h.facade.KitchenTickets(c.Request.Context(), status, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		response = append(response, h.toTicketResponse(t))
	}
	c.JSON(http.StatusOK, response)
}

func (h *KitchenHandler) toTicketResponse(t model.KitchenTicket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                     t.ID,
		OrderID:                t.OrderID,
		LineID:                 t.LineID,
		ProductName:            t.ProductName,
		Quantity:               t.Quantity,
		Notes:                  t.Notes,
		Status:                 string(t.Status),
		PreparationTimeMinutes: t.PrepMinutes,
		ElapsedMinutes:         h.facade.TicketElapsed(t),
		Overdue:                h.facade.TicketOverdue(t),
		CreatedAt:              t.CreatedAt,
		StartedAt:              t.StartedAt,
		CompletedAt:            t.CompletedAt,
	}
}
