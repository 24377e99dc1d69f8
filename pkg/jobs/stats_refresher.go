package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/shadowbane/home-flood-report/pkg/metrics"
	"github.com/shadowbane/home-flood-report/pkg/models"
	"github.com/shadowbane/home-flood-report/pkg/store"
	"go.uber.org/zap"
)

// StatsRefresher periodically reloads the record store and publishes
// report counts as gauges. Other processes may write the same file, so the
// gauges are recomputed from storage rather than tracked in memory.
type StatsRefresher struct {
	store    store.Store
	metrics  *metrics.Metrics
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewStatsRefresher(s store.Store, m *metrics.Metrics) *StatsRefresher {
	return &StatsRefresher{
		store:    s,
		metrics:  m,
		stopChan: make(chan struct{}),
	}
}

// Refresh loads every report and updates the gauges. It returns the count.
func (r *StatsRefresher) Refresh(ctx context.Context) (int, error) {
	reports, err := r.store.Load(ctx)
	if err != nil {
		return 0, err
	}

	byCause := make(map[string]int, len(models.Causes))
	for _, c := range models.Causes {
		byCause[string(c)] = 0
	}
	for _, report := range reports {
		cause := report.Type
		// free-text causes were entered through "Other"
		if !models.CauseType(cause).IsKnown() {
			cause = string(models.CauseOther)
		}
		byCause[cause]++
	}

	r.metrics.ReportsStored.Set(float64(len(reports)))
	for cause, n := range byCause {
		r.metrics.ReportsByCause.WithLabelValues(cause).Set(float64(n))
	}

	return len(reports), nil
}

// StartPeriodicRefresh refreshes once immediately and then on every tick
// until Stop is called.
func (r *StatsRefresher) StartPeriodicRefresh(interval time.Duration) {
	zap.S().Infof("Starting periodic report stats refresh every %v", interval)

	go func() {
		if _, err := r.Refresh(context.Background()); err != nil {
			zap.S().Errorf("Initial report stats refresh failed: %v", err)
		}
	}()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				zap.S().Debug("Running scheduled report stats refresh")
				if _, err := r.Refresh(context.Background()); err != nil {
					zap.S().Errorf("Scheduled report stats refresh failed: %v", err)
				}
			case <-r.stopChan:
				zap.S().Info("Stopping periodic report stats refresh")
				return
			}
		}
	}()
}

// Stop stops the periodic refresh. Calling it more than once is safe.
func (r *StatsRefresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
	})
}
