package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
)

type postStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByDocID(ctx context.Context, docID string) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter, hideAdminCategories bool) ([]models.Post, error)
	Answer(ctx context.Context, docID, answeredBy string, answeredAt time.Time, quotedPrice *int64) error
	Delete(ctx context.Context, docID string) error
}

type postUserStore interface {
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	FindOwnerByBizNum(ctx context.Context, bizNum string) (*models.User, error)
}

type usageCharger interface {
	ChargeForCategory(ctx context.Context, creatorUID string, category models.PostCategory) error
	RefundForCategory(ctx context.Context, creatorUID string, category models.PostCategory) error
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// PostService creates and manages consultation board records with correct
// tenant attribution and usage counter side effects.
type PostService struct {
	repo   postStore
	users  postUserStore
	usage  usageCharger
	audit  auditLogger
	logger *zap.Logger
}

// NewPostService constructs the service.
func NewPostService(repo postStore, users postUserStore, usage usageCharger, audit auditLogger, logger *zap.Logger) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{repo: repo, users: users, usage: usage, audit: audit, logger: logger}
}

// Create validates and stores a new board record on behalf of the caller.
func (s *PostService) Create(ctx context.Context, req dto.CreatePostRequest, actor *models.JWTClaims) (*models.Post, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	author, err := s.users.FindByUID(ctx, actor.UID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "author account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load author account")
	}
	return s.CreateAs(ctx, req, author)
}

// CreateAs stores a new board record attributed to the given author. The
// approval engine uses this path to create records for a requester after
// an owner approves.
func (s *PostService) CreateAs(ctx context.Context, req dto.CreatePostRequest, author *models.User) (*models.Post, error) {
	if req.Category == "" || strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "category, title, and content are required")
	}

	attributed := author
	if models.IsElevated(author.Role) && req.Category == models.CategoryPhoneLog {
		target, err := s.resolveAttributionTarget(ctx, req)
		if err != nil {
			return nil, err
		}
		if target != nil {
			attributed = target
		}
	}

	post := &models.Post{
		Category:    req.Category,
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		FileURLs:    append([]byte(nil), req.FileURLs...),
		AuthorUID:   attributed.UID,
		BizNum:      attributed.BizNum,
		CompanyName: attributed.CompanyName,
		Status:      req.Status,
	}

	// Phone log entries model calls already handled: stored resolved and
	// stamped with the creator's display name.
	if req.Category == models.CategoryPhoneLog {
		now := time.Now().UTC()
		name := author.ManagerName
		if name == "" {
			name = author.Email
		}
		post.Status = models.PostStatusDone
		post.AnsweredBy = &name
		post.AnsweredAt = &now
	}

	if err := s.usage.ChargeForCategory(ctx, attributed.UID, req.Category); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create record")
	}

	s.emitAudit(ctx, &models.AuditLog{
		UserUID:    &author.UID,
		Action:     models.AuditActionPostCreate,
		Resource:   string(post.Category),
		ResourceID: &post.DocID,
		NewValues:  []byte(`{"title":` + jsonString(post.Title) + `}`),
	})
	return post, nil
}

func (s *PostService) resolveAttributionTarget(ctx context.Context, req dto.CreatePostRequest) (*models.User, error) {
	switch {
	case req.TargetBizNum != "":
		target, err := s.users.FindOwnerByBizNum(ctx, req.TargetBizNum)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "target company not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve target company")
		}
		return target, nil
	case req.TargetAuthorUID != "":
		target, err := s.users.FindByUID(ctx, req.TargetAuthorUID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "target account not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve target account")
		}
		return target, nil
	}
	return nil, nil
}

// List returns board records visible to the caller. Non-elevated callers
// are limited to their own company and never see internal categories.
func (s *PostService) List(ctx context.Context, query dto.PostQuery, actor *models.JWTClaims) ([]models.Post, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	filter := models.PostFilter{
		Category: query.Category,
		Status:   query.Status,
	}
	if query.PageSize > 0 {
		filter.Limit = query.PageSize
		if query.Page > 1 {
			filter.Offset = (query.Page - 1) * query.PageSize
		}
	}

	hideAdmin := false
	if models.IsElevated(actor.Role) {
		filter.BizNum = query.BizNum
	} else {
		filter.BizNum = actor.BizNum
		hideAdmin = true
		if models.IsAdminOnlyCategory(query.Category) {
			return nil, appErrors.ErrForbidden
		}
	}

	posts, err := s.repo.List(ctx, filter, hideAdmin)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list records")
	}
	return posts, nil
}

// Get returns a single board record enforcing tenant scope.
func (s *PostService) Get(ctx context.Context, docID string, actor *models.JWTClaims) (*models.Post, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	post, err := s.repo.GetByDocID(ctx, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
	}
	if !models.IsElevated(actor.Role) {
		if post.BizNum != actor.BizNum || models.IsAdminOnlyCategory(post.Category) {
			return nil, appErrors.ErrForbidden
		}
	}
	return post, nil
}

// Answer records a staff reply, marking the record done.
func (s *PostService) Answer(ctx context.Context, docID string, req dto.AnswerPostRequest, actor *models.JWTClaims) (*models.Post, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !models.IsElevated(actor.Role) {
		return nil, appErrors.ErrForbidden
	}
	if strings.TrimSpace(req.Answer) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "answer content is required")
	}

	post, err := s.repo.GetByDocID(ctx, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
	}

	now := time.Now().UTC()
	name := actor.DisplayName()
	if err := s.repo.Answer(ctx, docID, name, now, req.QuotedPrice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to answer record")
	}
	post.Status = models.PostStatusDone
	post.AnsweredBy = &name
	post.AnsweredAt = &now
	if req.QuotedPrice != nil {
		post.QuotedPrice = req.QuotedPrice
	}
	return post, nil
}

// Delete removes a board record and reverses any usage counter charged at
// creation time.
func (s *PostService) Delete(ctx context.Context, docID string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	post, err := s.repo.GetByDocID(ctx, docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load record")
	}

	if !models.IsElevated(actor.Role) && post.AuthorUID != actor.UID {
		return appErrors.ErrForbidden
	}

	if err := s.usage.RefundForCategory(ctx, post.AuthorUID, post.Category); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, docID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete record")
	}

	s.emitAudit(ctx, &models.AuditLog{
		UserUID:    &actor.UID,
		Action:     models.AuditActionPostDelete,
		Resource:   string(post.Category),
		ResourceID: &post.DocID,
		OldValues:  []byte(`{"title":` + jsonString(post.Title) + `}`),
	})
	return nil
}

func (s *PostService) emitAudit(ctx context.Context, log *models.AuditLog) {
	if s.audit == nil || log == nil {
		return
	}
	log.IPAddress = "system"
	log.UserAgent = "post-service"
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
