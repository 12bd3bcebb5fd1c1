package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexbridge/src/app/http/dto"
	"lexbridge/src/app/http/response"
	"lexbridge/src/app/middleware"
	"lexbridge/src/core/usecase"
)

// StoreHandler handles the generic document-store endpoints.
type StoreHandler struct {
	storeService *usecase.StoreService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeService *usecase.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// List returns every document in a store, newest update first.
// GET /api/:store
func (h *StoreHandler) List(c *gin.Context) {
	docs, err := h.storeService.List(c.Request.Context(), c.Param("store"))
	if err != nil {
		// Attach error for middleware logging
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Upsert inserts or replaces one document. The body must carry an id.
// POST /api/:store
func (h *StoreHandler) Upsert(c *gin.Context) {
	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.BadRequest(c, "invalid JSON payload", middleware.GetRequestID(c))
		return
	}

	id, err := h.storeService.Upsert(c.Request.Context(), c.Param("store"), doc)
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	c.JSON(http.StatusCreated, dto.WriteResult{Success: true, ID: id})
}

// Delete removes one document by id. Always acknowledges success, whether
// or not the id existed.
// DELETE /api/:store/:id
func (h *StoreHandler) Delete(c *gin.Context) {
	id, err := h.storeService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	c.JSON(http.StatusOK, dto.WriteResult{Success: true, ID: id})
}
