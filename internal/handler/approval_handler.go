package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	"github.com/noah-isme/lawfirm-bo-api/internal/service"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
	"github.com/noah-isme/lawfirm-bo-api/pkg/response"
)

// ApprovalHandler wires HTTP endpoints to the approval workflow service.
type ApprovalHandler struct {
	service      *service.ApprovalService
	bulkMaxItems int
}

// NewApprovalHandler creates a new handler. bulkMaxItems caps the size of
// one bulk approve call; zero disables the cap.
func NewApprovalHandler(svc *service.ApprovalService, bulkMaxItems int) *ApprovalHandler {
	return &ApprovalHandler{service: svc, bulkMaxItems: bulkMaxItems}
}

// Submit godoc
// @Summary Submit approval request
// @Description File a pending request of the given type with a JSON payload
// @Tags Approvals
// @Accept json
// @Produce json
// @Param payload body dto.SubmitApprovalRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /approvals [post]
func (h *ApprovalHandler) Submit(c *gin.Context) {
	var req dto.SubmitApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
		return
	}

	request, err := h.service.Submit(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}

// List godoc
// @Summary List approval requests
// @Description List requests visible to the caller, newest first
// @Tags Approvals
// @Produce json
// @Param status query string false "Filter by status"
// @Param bizNum query string false "Filter by company (elevated only)"
// @Success 200 {object} response.Envelope
// @Router /approvals [get]
func (h *ApprovalHandler) List(c *gin.Context) {
	query := dto.ApprovalQuery{
		Status: models.ApprovalStatus(c.Query("status")),
		BizNum: c.Query("bizNum"),
	}

	requests, err := h.service.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, nil)
}

// Get godoc
// @Summary Get approval request
// @Description Fetch one request with requester and approver names
// @Tags Approvals
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /approvals/{id} [get]
func (h *ApprovalHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// Approve godoc
// @Summary Approve request
// @Description Approve a pending request and apply the requested change
// @Tags Approvals
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	if err := h.service.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"status": models.ApprovalStatusApproved}, nil)
}

// Reject godoc
// @Summary Reject request
// @Description Reject a pending request with an optional reason
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.RejectApprovalRequest false "Rejection reason"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	var req dto.RejectApprovalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejection payload"))
			return
		}
	}

	if err := h.service.Reject(c.Request.Context(), c.Param("id"), claimsFromContext(c), req.Reason); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"status": models.ApprovalStatusRejected}, nil)
}

// BulkApprove godoc
// @Summary Bulk approve requests
// @Description Approve many requests independently; partial failure yields 207
// @Tags Approvals
// @Accept json
// @Produce json
// @Param payload body dto.BulkApproveRequest true "Request IDs"
// @Success 200 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /approvals/bulk-approve [post]
func (h *ApprovalHandler) BulkApprove(c *gin.Context) {
	var req dto.BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk payload"))
		return
	}
	if h.bulkMaxItems > 0 && len(req.IDs) > h.bulkMaxItems {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "too many ids in one bulk call"))
		return
	}

	result, err := h.service.BulkApprove(c.Request.Context(), req.IDs, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.FailCount > 0 {
		response.MultiStatus(c, result)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete approval request
// @Description Remove a request; requester or firm staff only
// @Tags Approvals
// @Produce json
// @Param id path string true "Request ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /approvals/{id} [delete]
func (h *ApprovalHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
