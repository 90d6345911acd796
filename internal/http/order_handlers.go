package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

// Order handlers
type createOrderReq struct {
	Items           []domain.OrderItem      `json:"items"`
	CustomerName    string                  `json:"customerName" example:"Jane Doe"`
	CustomerEmail   string                  `json:"customerEmail" example:"jane@example.com"`
	ShippingAddress *domain.ShippingAddress `json:"shippingAddress"`
}

type updateOrderStatusReq struct {
	Status domain.OrderStatus `json:"status" enums:"pending,processing,shipped,delivered,cancelled"`
}

type updateOrderReq struct {
	Items           *[]domain.OrderItem     `json:"items"`
	CustomerName    *string                 `json:"customerName"`
	CustomerEmail   *string                 `json:"customerEmail"`
	ShippingAddress *domain.ShippingAddress `json:"shippingAddress"`
	Status          *domain.OrderStatus     `json:"status"`
}

type listOrdersQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit" binding:"min=0"`
	Offset int    `form:"offset" binding:"min=0"`
}

// @Summary List orders
// @Description count is the size of the returned page, total the number of matching orders.
// @Tags orders
// @Produce json
// @Param status query string false "Status"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} envelope{data=[]domain.Order}
// @Failure 400 {object} envelope
// @Router /api/orders [get]
func (s *Server) listOrders(c *gin.Context) {
	var q listOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBadRequest(c, "limit and offset must be non-negative integers")
		return
	}
	list, total, err := s.orders.List(c.Request.Context(), repository.OrderFilter{
		Status: domain.OrderStatus(q.Status),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	count := len(list)
	c.JSON(http.StatusOK, envelope{Success: true, Data: list, Count: &count, Total: &total})
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} envelope{data=domain.Order}
// @Failure 404 {object} envelope
// @Router /api/orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, http.StatusOK, o)
}

// @Summary Create order
// @Tags orders
// @Accept json
// @Produce json
// @Param input body createOrderReq true "Order"
// @Success 201 {object} envelope{data=domain.Order}
// @Failure 400 {object} envelope
// @Router /api/orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, invalidBody)
		return
	}
	o, err := s.orders.Create(c.Request.Context(), service.CreateOrderInput{
		Items:           req.Items,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, http.StatusCreated, o)
}

// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body updateOrderStatusReq true "Status"
// @Success 200 {object} envelope{data=domain.Order}
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/orders/{id}/status [put]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, invalidBody)
		return
	}
	o, err := s.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, http.StatusOK, o)
}

// @Summary Update order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body updateOrderReq true "Fields to change"
// @Success 200 {object} envelope{data=domain.Order}
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/orders/{id} [put]
func (s *Server) updateOrder(c *gin.Context) {
	var req updateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, invalidBody)
		return
	}
	o, err := s.orders.Update(c.Request.Context(), c.Param("id"), domain.OrderPatch{
		Items:           req.Items,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		Status:          req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, http.StatusOK, o)
}

// @Summary Delete order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/orders/{id} [delete]
func (s *Server) deleteOrder(c *gin.Context) {
	if err := s.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	writeMessage(c, "Order deleted successfully")
}
