package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	"github.com/noah-isme/lawfirm-bo-api/internal/service"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
	"github.com/noah-isme/lawfirm-bo-api/pkg/response"
)

// CaseHandler wires HTTP endpoints to the matter intake service.
type CaseHandler struct {
	service *service.CaseService
}

// NewCaseHandler creates a new handler.
func NewCaseHandler(svc *service.CaseService) *CaseHandler {
	return &CaseHandler{service: svc}
}

// Create godoc
// @Summary Register matter
// @Description Register a debt, bankruptcy, or litigation matter for the caller's company
// @Tags Cases
// @Accept json
// @Produce json
// @Param payload body dto.CreateCaseRequest true "Matter payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cases [post]
func (h *CaseHandler) Create(c *gin.Context) {
	var req dto.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid case payload"))
		return
	}

	matter, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, matter)
}

// List godoc
// @Summary List matters
// @Tags Cases
// @Produce json
// @Param kind query string false "debt, bankruptcy, or litigation"
// @Param status query string false "Filter by status"
// @Param search query string false "Search debtor, creditor, client, case name, or case number"
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Router /cases [get]
func (h *CaseHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	query := dto.CaseQuery{
		Kind:   models.CaseKind(c.Query("kind")),
		Status: models.CaseStatus(c.Query("status")),
		Search: c.Query("search"),
		Page:   page,
	}

	cases, err := h.service.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, cases, nil)
}

// Get godoc
// @Summary Get matter
// @Tags Cases
// @Produce json
// @Param id path string true "Matter ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cases/{id} [get]
func (h *CaseHandler) Get(c *gin.Context) {
	matter, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, matter, nil)
}

// Update godoc
// @Summary Update matter
// @Tags Cases
// @Accept json
// @Produce json
// @Param id path string true "Matter ID"
// @Param payload body dto.UpdateCaseRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cases/{id} [patch]
func (h *CaseHandler) Update(c *gin.Context) {
	var req dto.UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid case payload"))
		return
	}

	matter, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, matter, nil)
}

// Delete godoc
// @Summary Delete matter
// @Tags Cases
// @Produce json
// @Param id path string true "Matter ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cases/{id} [delete]
func (h *CaseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
