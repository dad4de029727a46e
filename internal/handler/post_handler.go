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

// PostHandler wires HTTP endpoints to the consultation board service.
type PostHandler struct {
	service         *service.PostService
	defaultPageSize int
}

// NewPostHandler creates a new handler.
func NewPostHandler(svc *service.PostService, defaultPageSize int) *PostHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	return &PostHandler{service: svc, defaultPageSize: defaultPageSize}
}

// Create godoc
// @Summary Create board record
// @Description Create a consultation record, charging usage when billable
// @Tags Posts
// @Accept json
// @Produce json
// @Param payload body dto.CreatePostRequest true "Record payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}

	post, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, post)
}

// List godoc
// @Summary List board records
// @Description List records visible to the caller
// @Tags Posts
// @Produce json
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Param bizNum query string false "Filter by company (elevated only)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(h.defaultPageSize)))

	query := dto.PostQuery{
		Category: models.PostCategory(c.Query("category")),
		Status:   models.PostStatus(c.Query("status")),
		BizNum:   c.Query("bizNum"),
		Page:     page,
		PageSize: pageSize,
	}

	posts, err := h.service.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, posts, nil)
}

// Get godoc
// @Summary Get board record
// @Tags Posts
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, post, nil)
}

// Answer godoc
// @Summary Answer board record
// @Description Staff answer a consultation, optionally quoting a price
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body dto.AnswerPostRequest true "Answer payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /posts/{id}/answer [post]
func (h *PostHandler) Answer(c *gin.Context) {
	var req dto.AnswerPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid answer payload"))
		return
	}

	post, err := h.service.Answer(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, post, nil)
}

// Delete godoc
// @Summary Delete board record
// @Description Remove a record, refunding any usage counter it consumed
// @Tags Posts
// @Produce json
// @Param id path string true "Record ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
