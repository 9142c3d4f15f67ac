package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/mataju/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type UnitHandler struct {
	service catalog.CatalogUseCase
}

type unitResponse struct {
	ID        int64  `json:"id"`
	HouseID   int64  `json:"house_id"`
	UserID    *int64 `json:"user_id,omitempty"`
	Size      string `json:"size"`
	Status    string `json:"status"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Price     int64  `json:"price"`
}

func NewUnitHandler(service catalog.CatalogUseCase) *UnitHandler {
	return &UnitHandler{service: service}
}

func (h *UnitHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id", h.get)
}

func (h *UnitHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	unit, err := h.service.GetUnit(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUnitResponse(*unit))
}

func toUnitResponse(view catalog.UnitView) unitResponse {
	resp := unitResponse{
		ID:      view.ID,
		HouseID: view.HouseID,
		UserID:  view.UserID,
		Size:    string(view.Size),
		Status:  string(view.Status),
		Price:   view.Price,
	}
	if view.StartDate != nil {
		resp.StartDate = view.StartDate.Format(time.RFC3339)
	}
	if view.EndDate != nil {
		resp.EndDate = view.EndDate.Format(time.RFC3339)
	}
	return resp
}

func toUnitResponses(views []catalog.UnitView) []unitResponse {
	out := make([]unitResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toUnitResponse(v))
	}
	return out
}
