package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/service"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
	"github.com/noah-isme/lawfirm-bo-api/pkg/response"
)

// ExpenseHandler wires HTTP endpoints to the expense ledger service.
type ExpenseHandler struct {
	service *service.ExpenseService
}

// NewExpenseHandler creates a new handler.
func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: svc}
}

// Create godoc
// @Summary Register expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param payload body dto.CreateExpenseRequest true "Expense payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid expense payload"))
		return
	}

	expense, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, expense)
}

// List godoc
// @Summary List expenses
// @Tags Expenses
// @Produce json
// @Param category query string false "Filter by category"
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	expenses, err := h.service.List(c.Request.Context(), expenseQueryFrom(c), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, expenses, nil)
}

// ExportCSV godoc
// @Summary Export expenses as CSV
// @Tags Expenses
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Router /expenses/export/csv [get]
func (h *ExpenseHandler) ExportCSV(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context(), expenseQueryFrom(c), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="expenses.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF godoc
// @Summary Export expenses as PDF
// @Tags Expenses
// @Produce application/pdf
// @Success 200 {string} string "PDF content"
// @Router /expenses/export/pdf [get]
func (h *ExpenseHandler) ExportPDF(c *gin.Context) {
	data, err := h.service.ExportPDF(c.Request.Context(), expenseQueryFrom(c), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="expenses.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func expenseQueryFrom(c *gin.Context) dto.ExpenseQuery {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return dto.ExpenseQuery{
		Category: c.Query("category"),
		From:     c.Query("from"),
		To:       c.Query("to"),
		Limit:    limit,
		Offset:   offset,
	}
}
