package services

import (
	"context"
	"net/http"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/types"
)

// MonitoringService wraps /api/monitoring and /api/performance
type MonitoringService struct {
	c *client.Client
}

func (s *MonitoringService) Health(ctx context.Context) (*types.SystemHealth, error) {
	return ref(get[types.SystemHealth](ctx, s.c, "/api/monitoring/health", nil))
}

func (s *MonitoringService) Metrics(ctx context.Context) (*types.SystemMetrics, error) {
	return ref(get[types.SystemMetrics](ctx, s.c, "/api/monitoring/metrics", nil))
}

func (s *MonitoringService) PerformanceOverview(ctx context.Context) (*types.PerformanceOverview, error) {
	return ref(get[types.PerformanceOverview](ctx, s.c, "/api/performance/overview", nil))
}

func (s *MonitoringService) PerformanceStats(ctx context.Context) (*types.PerformanceStats, error) {
	return ref(get[types.PerformanceStats](ctx, s.c, "/api/performance/stats", nil))
}

// ClearPerformanceStats resets the backend request statistics
func (s *MonitoringService) ClearPerformanceStats(ctx context.Context) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodDelete, Endpoint: "/api/performance/stats"})
}

// SlowQueries returns the slowest statements, 100 unless limit is set
func (s *MonitoringService) SlowQueries(ctx context.Context, limit int) ([]types.SlowQuery, error) {
	return get[[]types.SlowQuery](ctx, s.c, "/api/performance/slow-queries", client.Params{
		"limit": orDefault(limit, 100),
	})
}

func (s *MonitoringService) WarmupCache(ctx context.Context) (*types.CacheResult, error) {
	return ref(post[types.CacheResult](ctx, s.c, "/api/performance/cache/warmup", nil))
}

func (s *MonitoringService) ClearCache(ctx context.Context) (*types.CacheResult, error) {
	return ref(call[types.CacheResult](ctx, s.c, client.Request{
		Method:   http.MethodDelete,
		Endpoint: "/api/performance/cache/clear",
	}))
}
