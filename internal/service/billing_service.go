package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lawfirm-bo-api/internal/dto"
	"github.com/noah-isme/lawfirm-bo-api/internal/models"
	appErrors "github.com/noah-isme/lawfirm-bo-api/pkg/errors"
	"github.com/noah-isme/lawfirm-bo-api/pkg/export"
)

const billingStatsCacheKey = "billing:stats:monthly"

type billingStore interface {
	Create(ctx context.Context, log *models.BillingLog) error
	List(ctx context.Context, filter models.BillingFilter) ([]models.BillingLog, error)
	MonthlyStats(ctx context.Context) ([]models.BillingMonthlyStat, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetrics interface {
	RecordCacheOperation(hit bool)
}

// BillingService manages the firm-wide revenue ledger. All of it is
// elevated-staff territory; tenants never see each other's payments.
type BillingService struct {
	repo      billingStore
	cache     statsCache
	metrics   cacheMetrics
	cacheTTL  time.Duration
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBillingService constructs the service. cache may be nil, which
// disables stats caching.
func NewBillingService(repo billingStore, cache statsCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &BillingService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		csv:       export.NewCSVExporter(),
		pdf:       &export.PDFExporter{Landscape: true},
		validator: validate,
		logger:    logger,
	}
}

// SetMetrics wires the cache hit/miss recorder.
func (s *BillingService) SetMetrics(metrics cacheMetrics) {
	s.metrics = metrics
}

// Create records a new ledger entry and invalidates the stats cache.
func (s *BillingService) Create(ctx context.Context, req dto.CreateBillingLogRequest, actor *models.JWTClaims) (*models.BillingLog, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !models.IsElevated(actor.Role) {
		return nil, appErrors.ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid billing payload")
	}

	entry := &models.BillingLog{
		BizNum:      req.BizNum,
		CompanyName: req.CompanyName,
		Item:        req.Item,
		Amount:      req.Amount,
		Method:      req.Method,
		Memo:        req.Memo,
		RecordedBy:  actor.DisplayName(),
	}
	if req.RecordedAt != "" {
		recordedAt, err := time.Parse("2006-01-02", req.RecordedAt)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "recordedAt must be YYYY-MM-DD")
		}
		entry.RecordedAt = recordedAt
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create billing log")
	}
	s.invalidateStats(ctx)
	return entry, nil
}

// List returns ledger entries matching the filter, newest first.
func (s *BillingService) List(ctx context.Context, query dto.BillingQuery, actor *models.JWTClaims) ([]models.BillingLog, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !models.IsElevated(actor.Role) {
		return nil, appErrors.ErrForbidden
	}
	filter, err := buildBillingFilter(query)
	if err != nil {
		return nil, err
	}
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list billing logs")
	}
	return logs, nil
}

// ListMine returns only the entries the caller recorded themselves.
func (s *BillingService) ListMine(ctx context.Context, query dto.BillingQuery, actor *models.JWTClaims) ([]models.BillingLog, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !models.IsElevated(actor.Role) {
		return nil, appErrors.ErrForbidden
	}
	filter, err := buildBillingFilter(query)
	if err != nil {
		return nil, err
	}
	filter.RecordedBy = actor.DisplayName()
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list billing logs")
	}
	return logs, nil
}

// Stats returns cached monthly revenue aggregates, recomputing on miss.
func (s *BillingService) Stats(ctx context.Context, actor *models.JWTClaims) (*models.BillingStats, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !models.IsElevated(actor.Role) {
		return nil, appErrors.ErrForbidden
	}

	if s.cache != nil {
		var cached models.BillingStats
		err := s.cache.Get(ctx, billingStatsCacheKey, &cached)
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(true)
			}
			return &cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false)
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("billing stats cache read failed", zap.Error(err))
		}
	}

	months, err := s.repo.MonthlyStats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute billing stats")
	}
	stats := &models.BillingStats{
		Months:      months,
		GeneratedAt: time.Now().UTC(),
	}
	for _, month := range months {
		stats.GrandTotal += month.Total
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, billingStatsCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("billing stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// ExportCSV renders the filtered ledger as CSV bytes.
func (s *BillingService) ExportCSV(ctx context.Context, query dto.BillingQuery, actor *models.JWTClaims) ([]byte, error) {
	logs, err := s.List(ctx, query, actor)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(billingDataset(logs))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render billing csv")
	}
	return data, nil
}

// ExportPDF renders the filtered ledger as a landscape PDF.
func (s *BillingService) ExportPDF(ctx context.Context, query dto.BillingQuery, actor *models.JWTClaims) ([]byte, error) {
	logs, err := s.List(ctx, query, actor)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.Render(billingDataset(logs), "Revenue Ledger")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render billing pdf")
	}
	return data, nil
}

func (s *BillingService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "billing:stats:*"); err != nil {
		s.logger.Warn("billing stats cache invalidation failed", zap.Error(err))
	}
}

func buildBillingFilter(query dto.BillingQuery) (models.BillingFilter, error) {
	filter := models.BillingFilter{
		BizNum: query.BizNum,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if query.From != "" {
		from, err := time.Parse("2006-01-02", query.From)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse("2006-01-02", query.To)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
		}
		filter.To = &to
	}
	return filter, nil
}

func billingDataset(logs []models.BillingLog) export.Dataset {
	rows := make([]map[string]string, 0, len(logs))
	for _, log := range logs {
		rows = append(rows, map[string]string{
			"Date":     log.RecordedAt.Format("2006-01-02"),
			"Company":  log.CompanyName,
			"BizNum":   log.BizNum,
			"Item":     log.Item,
			"Amount":   strconv.FormatInt(log.Amount, 10),
			"Method":   log.Method,
			"Recorded": log.RecordedBy,
		})
	}
	return export.Dataset{
		Headers: []string{"Date", "Company", "BizNum", "Item", "Amount", "Method", "Recorded"},
		Rows:    rows,
	}
}
