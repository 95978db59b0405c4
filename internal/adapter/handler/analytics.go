package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-receptionist/errors"
	"github.com/johnquangdev/voice-receptionist/internal/adapter/dto/analytics"
	"github.com/johnquangdev/voice-receptionist/internal/adapter/presenter"
	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	httpmw "github.com/johnquangdev/voice-receptionist/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/johnquangdev/voice-receptionist/internal/usecase/errors"
)

const defaultAnalyticsPageSize = 20

// AnalyticsReader reads a subscriber's call analytics
type AnalyticsReader interface {
	ListBySubscriber(ctx context.Context, email string, limit, offset int) ([]*entities.AnalyticsRecord, error)
	CountBySubscriber(ctx context.Context, email string) (int64, error)
}

// Analytics serves call analytics to subscribers
type Analytics struct {
	reader AnalyticsReader
	logger *zap.Logger
}

// NewAnalytics creates a new analytics handler
func NewAnalytics(reader AnalyticsReader, logger *zap.Logger) *Analytics {
	return &Analytics{reader: reader, logger: logger}
}

// List returns the caller's analytics records
// @Summary      List call analytics
// @Description  Returns the authenticated subscriber's call analytics, newest first
// @Tags         Analytics
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (1-100)"  default(20)
// @Param        offset  query     int  false  "Records to skip"    default(0)
// @Success      200     {object}  analytics.ListResponse  "Analytics page"
// @Failure      400     {object}  map[string]interface{}  "Invalid pagination"
// @Failure      401     {object}  map[string]interface{}  "Not authenticated"
// @Failure      500     {object}  map[string]interface{}  "Failed to read analytics"
// @Router       /analytics [get]
func (h *Analytics) List(c echo.Context) error {
	email, ok := httpmw.GetSubscriberEmail(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated().WithDetail("reason", usecaseErrors.ErrMissingSubscriber.Error()))
	}

	limit, err := queryInt(c, "limit", defaultAnalyticsPageSize)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(usecaseErrors.ErrInvalidPagination.Error()))
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(usecaseErrors.ErrInvalidPagination.Error()))
	}
	req := analytics.ListRequest{Limit: limit, Offset: offset}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(usecaseErrors.ErrInvalidPagination.Error()))
	}

	ctx := c.Request().Context()
	records, err := h.reader.ListBySubscriber(ctx, email, req.Limit, req.Offset)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list analytics", err))
	}
	total, err := h.reader.CountBySubscriber(ctx, email)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("count analytics", err))
	}

	return HandleSuccess(h.logger, c, presenter.ToAnalyticsListResponse(records, total, req.Limit, req.Offset))
}
