package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/posdesk/fulfillment/internal/domain/model"
	"github.com/posdesk/fulfillment/internal/server/http/dto"
	"github.com/posdesk/fulfillment/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Submit handles POST /api/orders.
func (h *OrderHandler) Submit(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	in := usecase.SubmitOrderInput{
		CreateOrderInput: usecase.CreateOrderInput{
			BranchID:    req.BranchID,
			Type:        model.OrderType(req.OrderType),
			TableNumber: req.TableNumber,
			CustomerID:  req.CustomerID,
		},
	}
	for _, item := range req.Items {
		in.Lines = append(in.Lines, usecase.OrderLineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
		})
	}
	if req.WalkIn != nil {
		in.WalkIn = &usecase.WalkInInput{
			CustomerName:  req.WalkIn.CustomerName,
			CustomerPhone: req.WalkIn.CustomerPhone,
			PartySize:     req.WalkIn.PartySize,
		}
	}

	result, err := h.facade.SubmitOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"order": toOrderResponse(*result.Order)}
	if result.QueueEntry != nil {
		response["queue_entry"] = toQueueEntryResponse(*result.QueueEntry)
	}
	c.JSON(http.StatusCreated, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// List handles GET /api/orders?status=...
func (h *OrderHandler) List(c *gin.Context) {
	var statuses []model.OrderStatus
	if raw, ok := c.GetQuery("status"); ok && raw != "" {
		statuses = append(statuses, model.OrderStatus(raw))
	}

	orders, err := h.facade.Orders(c.Request.Context(), statuses)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.facade.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Discount handles POST /api/orders/:id/discount.
func (h *OrderHandler) Discount(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	order, err := h.facade.ApplyDiscount(c.Request.Context(), orderID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Serve handles POST /api/orders/:id/serve — the front-of-house handover signal.
func (h *OrderHandler) Serve(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.facade.ServeOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:             order.ID,
		OrderNumber:    order.Number,
		BranchID:       order.BranchID,
		OrderType:      string(order.Type),
		TableNumber:    order.TableNumber,
		CustomerID:     order.CustomerID,
		Status:         string(order.Status),
		Subtotal:       order.Subtotal,
		TaxAmount:      order.TaxAmount,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
		CreatedAt:      order.CreatedAt,
		CompletedAt:    order.CompletedAt,
	}
	for _, line := range order.Lines {
		resp.Items = append(resp.Items, dto.OrderLineResponse{
			ProductID:              line.ProductID,
			ProductName:            line.ProductName,
			Quantity:               line.Quantity,
			UnitPrice:              line.UnitPrice,
			TotalPrice:             line.TotalPrice,
			Notes:                  line.Notes,
			PreparationTimeMinutes: line.PrepMinutes,
		})
	}
	return resp
}
