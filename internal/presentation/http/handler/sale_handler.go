package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mverbeke/kassa-api/internal/application/service"
	"github.com/mverbeke/kassa-api/internal/domain/enum"
	"github.com/mverbeke/kassa-api/internal/presentation/http/dto/response"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create handles checkout
func (h *SaleHandler) Create(c *gin.Context) {
	employeeID := GetEmployeeID(c)
	if employeeID == nil {
		response.Unauthorized(c, "Employee not authenticated")
		return
	}

	var req struct {
		ReceiptNumber     string  `json:"receipt_number"`
		PaymentMethod     string  `json:"payment_method" binding:"required"`
		AmountReceived    float64 `json:"amount_received"`
		LoyaltyCardNumber string  `json:"loyalty_card_number"`
		Discounts         []struct {
			Type        string  `json:"type"`
			Value       float64 `json:"value"`
			Description string  `json:"description"`
		} `json:"discounts"`
		Items []struct {
			ProductID uuid.UUID `json:"product_id" binding:"required"`
			Quantity  int       `json:"quantity" binding:"required"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.SaleItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	discounts := make([]service.DiscountInput, len(req.Discounts))
	for i, d := range req.Discounts {
		discounts[i] = service.DiscountInput{
			Type:        d.Type,
			Value:       d.Value,
			Description: d.Description,
		}
	}

	sale, err := h.saleService.RecordSale(c.Request.Context(), &service.RecordSaleInput{
		EmployeeID:        *employeeID,
		Items:             items,
		PaymentMethod:     enum.PaymentMethod(req.PaymentMethod),
		AmountReceived:    req.AmountReceived,
		ReceiptNumber:     req.ReceiptNumber,
		Discounts:         discounts,
		LoyaltyCardNumber: req.LoyaltyCardNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", sale)
}

// List handles listing sales, optionally filtered by day range or
// employee
func (h *SaleHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if employeeIDStr := c.Query("employee_id"); employeeIDStr != "" {
		employeeID, err := uuid.Parse(employeeIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid employee ID")
			return
		}
		sales, err := h.saleService.GetSalesByEmployee(ctx, employeeID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Sales retrieved successfully", sales)
		return
	}

	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")
	if startDateStr != "" || endDateStr != "" {
		start, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		if endDateStr == "" {
			endDateStr = startDateStr
		}
		end, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		sales, err := h.saleService.GetSalesByDate(ctx, start, end)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Sales retrieved successfully", sales)
		return
	}

	sales, err := h.saleService.GetSales(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sales retrieved successfully", sales)
}

// Recent handles the register's recent-sales listing. Without a count
// the configured recent-sales window is returned.
func (h *SaleHandler) Recent(c *gin.Context) {
	count, _ := strconv.Atoi(c.Query("count"))

	sales, err := h.saleService.GetRecentSales(c.Request.Context(), count)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recent sales retrieved successfully", sales)
}

// Get handles getting a single sale
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSaleByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Total handles summing sale totals over a date range
func (h *SaleHandler) Total(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	endStr := c.Query("end_date")
	if endStr == "" {
		endStr = c.Query("start_date")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
		return
	}

	// Clamp to whole days, matching the sales listing
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, end.Location())

	total, err := h.saleService.CalculateSalesTotal(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales total calculated successfully", gin.H{
		"total": float64(total) / 100,
	})
}

// Refund handles refunding a sale
func (h *SaleHandler) Refund(c *gin.Context) {
	employeeID := GetEmployeeID(c)
	if employeeID == nil {
		response.Unauthorized(c, "Employee not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.RefundSaleInput{
		EmployeeID: *employeeID,
		Amount:     req.Amount,
	}
	if req.Method != "" {
		method := enum.PaymentMethod(req.Method)
		input.Method = &method
	}

	sale, err := h.saleService.RefundSale(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale refunded successfully", sale)
}
