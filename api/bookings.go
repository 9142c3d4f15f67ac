package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/mataju/internal/auth"
	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/service/allocation"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service allocation.AllocationUseCase
}

type createBookingRequest struct {
	HouseID   int64  `json:"house_id" binding:"required"`
	UnitSize  string `json:"unit_size" binding:"required"`
	StartDate string `json:"start_date" binding:"required"` // "2025-01-01"
	Days      int    `json:"duration_days" binding:"required"`
	UserNote  string `json:"user_note"`
}

type checkOutRequest struct {
	UnitID   int64  `json:"unit_id" binding:"required"`
	UserNote string `json:"user_note"`
}

type bookingResponse struct {
	ID            int64  `json:"id"`
	Reference     string `json:"reference"`
	UserID        int64  `json:"user_id"`
	UnitID        int64  `json:"unit_id"`
	RequestDate   string `json:"request_date"`
	Type          string `json:"type"`
	Charge        int64  `json:"charge"`
	PaymentDate   string `json:"payment_date,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Status        string `json:"status"`
	UserNote      string `json:"user_note,omitempty"`
	AdminNote     string `json:"admin_note,omitempty"`
}

func NewBookingHandler(service allocation.AllocationUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.POST("/checkout", h.checkOut)
	router.GET("/:id", h.get)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	size, ok := domain.ParseUnitSize(req.UnitSize)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_size must be one of S, M, L"})
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be formatted as YYYY-MM-DD"})
		return
	}

	result, err := h.service.RequestBooking(c.Request.Context(), allocation.RequestBookingInput{
		UserID:    auth.CallerID(c),
		HouseID:   req.HouseID,
		Size:      size,
		StartDate: start,
		Days:      req.Days,
		UserNote:  req.UserNote,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":      toBookingResponse(result.Booking),
		"total_charge": result.Charge,
	})
}

func (h *BookingHandler) checkOut(c *gin.Context) {
	var req checkOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.RequestCheckOut(c.Request.Context(), allocation.RequestCheckOutInput{
		UserID:   auth.CallerID(c),
		UnitID:   req.UnitID,
		UserNote: req.UserNote,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": toBookingResponse(result.Booking)})
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	booking, err := h.service.GetBookingByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:          b.ID,
		Reference:   b.Reference,
		UserID:      b.UserID,
		UnitID:      b.UnitID,
		RequestDate: b.RequestDate.Format(time.RFC3339),
		Type:        string(b.Type),
		Charge:      b.Charge,
		Status:      string(b.Status),
		UserNote:    b.UserNote,
		AdminNote:   b.AdminNote,
	}
	if b.PaymentDate != nil {
		resp.PaymentDate = b.PaymentDate.Format(time.RFC3339)
	}
	if b.PaymentMethod != nil {
		resp.PaymentMethod = string(*b.PaymentMethod)
	}
	return resp
}
