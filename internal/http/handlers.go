package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

const invalidBody = "Invalid request body"

// Product handlers
type createProductReq struct {
	Name        string           `json:"name" example:"Wireless Mouse"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number" example:"29.99"`
	Category    string           `json:"category" example:"electronics"`
	SKU         string           `json:"sku" example:"WM-001"`
	Images      []string         `json:"images"`
}

type updateProductReq struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
	Category    *string          `json:"category"`
	SKU         *string          `json:"sku"`
	Images      *[]string        `json:"images"`
}

type listProductsQuery struct {
	Category string `form:"category"`
	Q        string `form:"q"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
}

// @Summary List products
// @Tags catalog
// @Produce json
// @Param category query string false "Category"
// @Param q query string false "Name contains"
// @Param minPrice query number false "Min price"
// @Param maxPrice query number false "Max price"
// @Success 200 {object} envelope{data=[]domain.Product}
// @Failure 400 {object} envelope
// @Router /api/catalog [get]
func (s *Server) listProducts(c *gin.Context) {
	var q listProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBadRequest(c, "Invalid query parameters")
		return
	}
	f := repository.ProductFilter{Category: q.Category, NameSubstring: q.Q}
	var err error
	if f.MinPrice, err = parsePrice(q.MinPrice); err != nil {
		writeBadRequest(c, "minPrice must be a number")
		return
	}
	if f.MaxPrice, err = parsePrice(q.MaxPrice); err != nil {
		writeBadRequest(c, "maxPrice must be a number")
		return
	}

	list, err := s.products.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	writeList(c, list, len(list))
}

// @Summary Get product by id
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} envelope{data=domain.Product}
// @Failure 404 {object} envelope
// @Router /api/catalog/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, http.StatusOK, p)
}

// @Summary Create product
// @Tags catalog
// @Accept json
// @Produce json
// @Param input body createProductReq true "Product"
// @Success 201 {object} envelope{data=domain.Product}
// @Failure 400 {object} envelope
// @Router /api/catalog [post]
func (s *Server) createProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, invalidBody)
		return
	}
	p, err := s.products.Create(c.Request.Context(), service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		SKU:         req.SKU,
		Images:      req.Images,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, http.StatusCreated, p)
}

// @Summary Update product
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body updateProductReq true "Fields to change"
// @Success 200 {object} envelope{data=domain.Product}
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/catalog/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var req updateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, invalidBody)
		return
	}
	p, err := s.products.Update(c.Request.Context(), c.Param("id"), domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		SKU:         req.SKU,
		Images:      req.Images,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeData(c, http.StatusOK, p)
}

// @Summary Delete product
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/catalog/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	writeMessage(c, "Product deleted successfully")
}

func parsePrice(v string) (*decimal.Decimal, error) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
