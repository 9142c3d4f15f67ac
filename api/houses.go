package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/mataju/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type HouseHandler struct {
	service catalog.CatalogUseCase
}

func NewHouseHandler(service catalog.CatalogUseCase) *HouseHandler {
	return &HouseHandler{service: service}
}

func (h *HouseHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/units", h.listUnits)
}

func (h *HouseHandler) list(c *gin.Context) {
	houses, err := h.service.ListHouses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, houses)
}

func (h *HouseHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	house, err := h.service.GetHouse(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, house)
}

func (h *HouseHandler) listUnits(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	units, err := h.service.ListUnitsByHouse(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUnitResponses(units))
}
