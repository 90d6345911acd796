package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

type adjustInventoryReq struct {
	ProductID string                `json:"productId" example:"3f1c..."`
	Quantity  *int64                `json:"quantity" example:"5"`
	Type      domain.AdjustmentType `json:"type" enums:"add,subtract,set" example:"add"`
	Reason    string                `json:"reason" example:"restock"`
}

type updateInventoryReq struct {
	Quantity          *int64 `json:"quantity"`
	LowStockThreshold *int64 `json:"lowStockThreshold"`
}

type listInventoryQuery struct {
	LowStock bool `form:"lowStock"`
}

// @Summary List inventory records
// @Tags inventory
// @Produce json
// @Param lowStock query bool false "Only records at or below their threshold"
// @Success 200 {object} envelope{data=[]domain.Inventory}
// @Router /api/inventory [get]
func (s *Server) listInventory(c *gin.Context) {
	var q listInventoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBadRequest(c, "lowStock must be a boolean")
		return
	}
	list, err := s.inventory.List(c.Request.Context(), repository.InventoryFilter{LowStockOnly: q.LowStock})
	if err != nil {
		writeError(c, err)
		return
	}
	writeList(c, list, len(list))
}

// @Summary Get inventory for a product
// @Tags inventory
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} envelope{data=domain.Inventory}
// @Failure 404 {object} envelope
// @Router /api/inventory/{productId} [get]
func (s *Server) getInventory(c *gin.Context) {
	inv, err := s.inventory.GetByProductID(c.Request.Context(), c.Param("productId"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, http.StatusOK, inv)
}

// @Summary Adjust inventory
// @Description Creates the record with a threshold of 10 on first use. Type defaults to set.
// @Tags inventory
// @Accept json
// @Produce json
// @Param input body adjustInventoryReq true "Adjustment"
// @Success 200 {object} envelope{data=domain.Inventory}
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/inventory/adjust [post]
func (s *Server) adjustInventory(c *gin.Context) {
	var req adjustInventoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, invalidBody)
		return
	}
	inv, err := s.inventory.Adjust(c.Request.Context(), service.AdjustInventoryInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Type:      req.Type,
		Reason:    req.Reason,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, http.StatusOK, inv)
}

// @Summary Update inventory directly
// @Tags inventory
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param input body updateInventoryReq true "Fields to set"
// @Success 200 {object} envelope{data=domain.Inventory}
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/inventory/{productId} [put]
func (s *Server) updateInventory(c *gin.Context) {
	var req updateInventoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, invalidBody)
		return
	}
	inv, err := s.inventory.Update(c.Request.Context(), c.Param("productId"), service.UpdateInventoryInput{
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, http.StatusOK, inv)
}
