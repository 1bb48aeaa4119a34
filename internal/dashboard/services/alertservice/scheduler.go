package alertservice

import (
	"context"
	"fmt"

	"github.com/Leopold1975/crypto_dashboard/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Start runs CheckAll on schedule until ctx is done. Runs never overlap.
func (as *AlertService) Start(ctx context.Context, schedule string) error {
	cl := cronLogger{lg: as.lg}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	_, err := c.AddFunc(schedule, func() {
		if err := as.CheckAll(ctx); err != nil {
			as.lg.Errorf("check alerts error: %s", err)
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job error: %w", err)
	}

	c.Start()
	as.lg.Infof("alert checks scheduled %q", schedule)

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()

	return nil
}

type cronLogger struct {
	lg logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.lg.Debugf("cron: %s %v", msg, keysAndValues)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.lg.Errorf("cron: %s %v: %s", msg, keysAndValues, err)
}
