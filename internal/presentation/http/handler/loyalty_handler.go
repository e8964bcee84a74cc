package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/application/service"
	"github.com/mverbeke/kassa-api/internal/presentation/http/dto/response"
	"github.com/mverbeke/kassa-api/pkg/pagination"
)

// LoyaltyHandler handles loyalty card HTTP requests
type LoyaltyHandler struct {
	loyaltyService *service.LoyaltyService
}

// NewLoyaltyHandler creates a new loyalty handler
func NewLoyaltyHandler(loyaltyService *service.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{loyaltyService: loyaltyService}
}

type loyaltyCardRequest struct {
	Number       string  `json:"number"`
	CustomerName string  `json:"customer_name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
}

func (req *loyaltyCardRequest) toInput() *service.LoyaltyCardInput {
	return &service.LoyaltyCardInput{
		Number:       req.Number,
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Phone:        req.Phone,
	}
}

// Create handles registering a loyalty card
func (h *LoyaltyHandler) Create(c *gin.Context) {
	var req loyaltyCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.loyaltyService.CreateCard(c.Request.Context(), req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Loyalty card created successfully", card)
}

// List handles listing loyalty cards
func (h *LoyaltyHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))

	result, err := h.loyaltyService.ListCards(c.Request.Context(), &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Loyalty cards retrieved successfully", result)
}

// Get handles getting a single loyalty card
func (h *LoyaltyHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid card ID")
		return
	}

	card, err := h.loyaltyService.GetCard(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loyalty card retrieved successfully", card)
}

// GetByNumber handles the register's card scan lookup
func (h *LoyaltyHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		response.BadRequest(c, "Card number is required")
		return
	}

	card, err := h.loyaltyService.GetCardByNumber(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loyalty card retrieved successfully", card)
}

// Update handles updating a loyalty card
func (h *LoyaltyHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid card ID")
		return
	}

	var req loyaltyCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.loyaltyService.UpdateCard(c.Request.Context(), id, req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loyalty card updated successfully", card)
}

// Delete handles deleting a loyalty card
func (h *LoyaltyHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid card ID")
		return
	}

	if err := h.loyaltyService.DeleteCard(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Loyalty card deleted successfully", nil)
}

// AwardPoints handles a manual point award
func (h *LoyaltyHandler) AwardPoints(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid card ID")
		return
	}

	var req struct {
		Points int `json:"points" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.loyaltyService.AwardPoints(c.Request.Context(), id, req.Points)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Points awarded successfully", card)
}
