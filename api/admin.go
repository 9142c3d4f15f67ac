package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/seed"
	"github.com/Domenick1991/mataju/internal/service/allocation"
	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the approve/reject decisions and the seeding
// endpoints.
type AdminHandler struct {
	service allocation.AllocationUseCase
	seeder  *seed.Seeder
}

type approveBookingRequest struct {
	PaymentDate   string `json:"payment_date" binding:"required"` // "2025-01-02"
	PaymentMethod string `json:"payment_method" binding:"required"`
	AdminNote     string `json:"admin_note"`
}

type rejectBookingRequest struct {
	AdminNote string `json:"admin_note" binding:"required"`
}

func NewAdminHandler(service allocation.AllocationUseCase, seeder *seed.Seeder) *AdminHandler {
	return &AdminHandler{service: service, seeder: seeder}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings", h.listPending)
	router.POST("/bookings/:id/approve", h.approve)
	router.POST("/bookings/:id/reject", h.reject)
	router.POST("/seed", h.runSeed)
}

func (h *AdminHandler) listPending(c *gin.Context) {
	bookings, err := h.service.ListPendingBookings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req approveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	method, ok := domain.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_method must be one of CASH, CARD, VAPORPAY, BITCOIN"})
		return
	}
	paid, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_date must be formatted as YYYY-MM-DD"})
		return
	}

	booking, err := h.service.ApproveBooking(c.Request.Context(), id, domain.AdminDecision{
		PaymentDate:   &paid,
		PaymentMethod: &method,
		AdminNote:     req.AdminNote,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *AdminHandler) reject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req rejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.RejectBooking(c.Request.Context(), id, req.AdminNote)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *AdminHandler) runSeed(c *gin.Context) {
	if h.seeder == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "seeding is not enabled"})
		return
	}
	if err := h.seeder.Run(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "seed completed"})
}
