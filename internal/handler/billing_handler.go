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

// BillingHandler wires HTTP endpoints to the revenue ledger service.
type BillingHandler struct {
	service *service.BillingService
}

// NewBillingHandler creates a new handler.
func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	return &BillingHandler{service: svc}
}

// Create godoc
// @Summary Record revenue entry
// @Tags Billing
// @Accept json
// @Produce json
// @Param payload body dto.CreateBillingLogRequest true "Ledger entry"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /billing [post]
func (h *BillingHandler) Create(c *gin.Context) {
	var req dto.CreateBillingLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid billing payload"))
		return
	}

	entry, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, entry)
}

// List godoc
// @Summary List revenue entries
// @Tags Billing
// @Produce json
// @Param bizNum query string false "Filter by company"
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /billing [get]
func (h *BillingHandler) List(c *gin.Context) {
	logs, err := h.service.List(c.Request.Context(), billingQueryFrom(c), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, logs, nil)
}

// MyLogs godoc
// @Summary List ledger entries recorded by the caller
// @Tags Billing
// @Produce json
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /billing/my [get]
func (h *BillingHandler) MyLogs(c *gin.Context) {
	logs, err := h.service.ListMine(c.Request.Context(), billingQueryFrom(c), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, logs, nil)
}

// Stats godoc
// @Summary Monthly revenue stats
// @Description Cached monthly aggregates for the admin dashboard
// @Tags Billing
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /billing/stats [get]
func (h *BillingHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats, nil)
}

// ExportCSV godoc
// @Summary Export ledger as CSV
// @Tags Billing
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Router /billing/export/csv [get]
func (h *BillingHandler) ExportCSV(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context(), billingQueryFrom(c), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="billing.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF godoc
// @Summary Export ledger as PDF
// @Tags Billing
// @Produce application/pdf
// @Success 200 {string} string "PDF content"
// @Router /billing/export/pdf [get]
func (h *BillingHandler) ExportPDF(c *gin.Context) {
	data, err := h.service.ExportPDF(c.Request.Context(), billingQueryFrom(c), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="billing.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func billingQueryFrom(c *gin.Context) dto.BillingQuery {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return dto.BillingQuery{
		BizNum: c.Query("bizNum"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Limit:  limit,
		Offset: offset,
	}
}
