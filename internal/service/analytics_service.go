package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sumanshinde/cloth-pos/internal/model"
	"github.com/sumanshinde/cloth-pos/internal/repository"
)

// DTOs
type AnalyticsQuery struct {
	Period    string `form:"period"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

const PeriodThisMonth = "this_month"

var ErrInvalidPeriod = errors.New("period must be a positive number of days, this_month, or a start_date/end_date pair")

type AnalyticsService interface {
	GetAnalytics(ctx context.Context, sessionID string, query AnalyticsQuery) (*model.Analytics, error)
	GetDailyStats(ctx context.Context, sessionID string) (*model.AnalyticsSummary, error)
	ListSales(ctx context.Context, sessionID string) ([]model.Sale, error)
	ListReturns(ctx context.Context, sessionID string) ([]model.Return, error)
}

type analyticsService struct {
	sessions SessionStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewAnalyticsService(sessions SessionStore, logger *zap.Logger) AnalyticsService {
	return &analyticsService{sessions: sessions, logger: logger, now: time.Now}
}

// ParsePeriod resolves the query into a backend window. Default is the trailing 30 days.
func ParsePeriod(query AnalyticsQuery, now time.Time) (repository.Period, error) {
	if query.StartDate != "" || query.EndDate != "" {
		if query.StartDate == "" || query.EndDate == "" {
			return repository.Period{}, ErrInvalidPeriod
		}
		start, err := time.Parse(time.RFC3339, query.StartDate)
		if err != nil {
			return repository.Period{}, fmt.Errorf("%w: invalid start_date", ErrInvalidPeriod)
		}
		end, err := time.Parse(time.RFC3339, query.EndDate)
		if err != nil {
			return repository.Period{}, fmt.Errorf("%w: invalid end_date", ErrInvalidPeriod)
		}
		if end.Before(start) {
			return repository.Period{}, fmt.Errorf("%w: end_date before start_date", ErrInvalidPeriod)
		}
		return repository.Period{Start: &start, End: &end}, nil
	}

	period := strings.TrimSpace(query.Period)
	switch period {
	case "":
		return repository.Period{Days: 30}, nil
	case PeriodThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, 0).Add(-time.Second)
		return repository.Period{Start: &start, End: &end}, nil
	}

	days, err := strconv.Atoi(period)
	if err != nil || days <= 0 {
		return repository.Period{}, ErrInvalidPeriod
	}
	return repository.Period{Days: days}, nil
}

func (s *analyticsService) GetAnalytics(ctx context.Context, sessionID string, query AnalyticsQuery) (*model.Analytics, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	period, err := ParsePeriod(query, s.now())
	if err != nil {
		return nil, err
	}

	analytics, err := sess.Backend.Analytics.Get(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}
	return analytics, nil
}

// GetDailyStats is the one-day summary shown in the checkout header
func (s *analyticsService) GetDailyStats(ctx context.Context, sessionID string) (*model.AnalyticsSummary, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	analytics, err := sess.Backend.Analytics.Get(ctx, repository.Period{Days: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to load daily stats: %w", err)
	}
	return &analytics.Summary, nil
}

func (s *analyticsService) ListSales(ctx context.Context, sessionID string) ([]model.Sale, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	sales, err := sess.Backend.Sales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return sales, nil
}

func (s *analyticsService) ListReturns(ctx context.Context, sessionID string) ([]model.Return, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	list, err := sess.Backend.Returns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load returns: %w", err)
	}
	return list, nil
}
