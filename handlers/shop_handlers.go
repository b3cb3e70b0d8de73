package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retailco/shopper/app"
	"retailco/shopper/models"
)

type ShopHandlers struct {
	Session Session
}

func NewShopHandlers(session Session) *ShopHandlers {
	return &ShopHandlers{Session: session}
}

func (h *ShopHandlers) GetState(c *gin.Context) {
	respond(c, h.Session.State())
}

func (h *ShopHandlers) ListProducts(c *gin.Context) {
	respond(c, dispatch(c, h.Session, app.LoadCatalog{}))
}

// Search treats a missing or blank q as a full catalog load.
func (h *ShopHandlers) Search(c *gin.Context) {
	respond(c, dispatch(c, h.Session, app.Search{Query: c.Query("q")}))
}

type addToCartRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
}

func (h *ShopHandlers) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	product, found := findProduct(h.Session.State(), req.ProductID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	respond(c, dispatch(c, h.Session, app.AddToCart{Product: product}))
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// SetQuantity sets a line to exactly quantity; zero or less removes it.
func (h *ShopHandlers) SetQuantity(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	respond(c, dispatch(c, h.Session, app.SetQuantity{ProductID: id, Quantity: *req.Quantity}))
}

func (h *ShopHandlers) RemoveFromCart(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	respond(c, dispatch(c, h.Session, app.RemoveFromCart{ProductID: id}))
}

func (h *ShopHandlers) Checkout(c *gin.Context) {
	respond(c, dispatch(c, h.Session, app.Checkout{}))
}

func (h *ShopHandlers) Orders(c *gin.Context) {
	respond(c, dispatch(c, h.Session, app.LoadOrders{}))
}

func findProduct(s app.State, id int64) (models.Product, bool) {
	for _, p := range s.Products {
		if p.ProductID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
