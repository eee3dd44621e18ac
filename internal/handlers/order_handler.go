package handlers

import (
	"grocery_store/internal/notification"
	"grocery_store/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OrderDispatcher queues post-commit order notifications.
type OrderDispatcher interface {
	Dispatch(order notification.OrderSnapshot) bool
}

type OrderHandler struct {
	checkout   services.CheckoutService
	orders     services.OrderService
	dispatcher OrderDispatcher
}

func NewOrderHandler(checkout services.CheckoutService, orders services.OrderService, dispatcher OrderDispatcher) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders, dispatcher: dispatcher}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	confirmation, err := h.checkout.CreateOrder(c.Request.Context(), req, actingUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if h.dispatcher != nil {
		h.dispatcher.Dispatch(notification.NewSnapshot(confirmation.Order))
	}

	c.JSON(http.StatusCreated, confirmation)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrderByReference(c *gin.Context) {
	order, err := h.orders.GetOrderByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	session := currentSession(c)
	orders, err := h.orders.GetUserOrders(c.Request.Context(), session.UserID, queryInt(c, "limit", 100), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// PaymentStarted tells the admin and the customer that payment of a pending
// order is under way.
func (h *OrderHandler) PaymentStarted(c *gin.Context) {
	order, err := h.orders.StartPayment(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}

	queued := false
	if h.dispatcher != nil {
		queued = h.dispatcher.Dispatch(notification.NewPaymentStartedSnapshot(order))
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":         "Payment notifications queued",
		"order_reference": order.OrderReference,
		"queued":          queued,
	})
}
