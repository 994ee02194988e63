package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/yunlin/oldtown/metrics"
	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/utils"
)

// ViewRetention is how long daily content view rows are kept.
const ViewRetention = 90 * 24 * time.Hour

// Scheduler runs background maintenance jobs.
type Scheduler struct {
	sched gocron.Scheduler
}

// StartScheduler refreshes the content item gauges every interval and, when views is
// set, prunes old view rows once a day. A non-positive interval disables the refresh job.
func StartScheduler(content *ContentService, m *metrics.Metrics, views *ViewCounter, interval time.Duration) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	if interval > 0 {
		_, err = sched.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() { RefreshContentGauges(content, m) }),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	}

	if views != nil {
		_, err = sched.NewJob(
			gocron.DurationJob(24*time.Hour),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				n, err := views.Prune(ctx, time.Now().Add(-ViewRetention))
				if err != nil {
					utils.Logger.Error("prune content views failed", zap.Error(err))
					return
				}
				utils.Logger.Info("pruned content views", zap.Int64("rows", n))
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	}

	sched.Start()
	return &Scheduler{sched: sched}, nil
}

// RefreshContentGauges publishes the current item count of every category.
func RefreshContentGauges(content *ContentService, m *metrics.Metrics) map[models.Category]int {
	counts := content.Counts()
	for c, n := range counts {
		m.SetContentItems(string(c), n)
	}
	utils.Logger.Debug("content gauges refreshed", zap.Any("counts", counts))
	return counts
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}
