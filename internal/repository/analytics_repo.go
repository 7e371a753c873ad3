package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sumanshinde/cloth-pos/internal/model"
)

// Period selects the analytics window: either a trailing day count or an explicit range
type Period struct {
	Days  int
	Start *time.Time
	End   *time.Time
}

// Query renders the period as backend query parameters. An explicit range wins over Days.
func (p Period) Query() url.Values {
	q := url.Values{}
	if p.Start != nil && p.End != nil {
		q.Set("start_date", p.Start.Format(time.RFC3339))
		q.Set("end_date", p.End.Format(time.RFC3339))
		return q
	}
	days := p.Days
	if days <= 0 {
		days = 30
	}
	q.Set("days", strconv.Itoa(days))
	return q
}

type AnalyticsRepository interface {
	Get(ctx context.Context, period Period) (*model.Analytics, error)
}

type analyticsRepository struct {
	client *Client
}

func NewAnalyticsRepository(client *Client) AnalyticsRepository {
	return &analyticsRepository{client: client}
}

func (r *analyticsRepository) Get(ctx context.Context, period Period) (*model.Analytics, error) {
	var analytics model.Analytics
	if err := r.client.do(ctx, http.MethodGet, "/sales/analytics/", period.Query(), nil, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}
