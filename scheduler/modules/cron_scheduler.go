package modules

import (
	"context"

	"github.com/Luismorlan/trackhubs/scheduler"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

type CronSchedulerConfig struct {
	Name string
	// Standard 5 field cron expression, or a descriptor like "@daily".
	Schedule string
	// Publish one request as soon as the module starts.
	RunOnStart bool
}

// CronScheduler periodically asks for every trackdb to be enriched.
type CronScheduler struct {
	Config CronSchedulerConfig

	EventBus *gochannel.GoChannel
}

func NewCronScheduler(config CronSchedulerConfig, e *gochannel.GoChannel) *CronScheduler {
	return &CronScheduler{
		Config:   config,
		EventBus: e,
	}
}

// Trigger publishes one enrichment request for all trackdbs.
func (s *CronScheduler) Trigger() error {
	req := &scheduler.EnrichmentRequest{RequestID: uuid.NewString()}
	msg, err := scheduler.NewMessage(req)
	if err != nil {
		return err
	}
	if err := s.EventBus.Publish(scheduler.TOPIC_PENDING_ENRICHMENT, msg); err != nil {
		return errors.Wrap(err, "publish enrichment request")
	}
	Logger.Log.WithField("request_id", req.RequestID).Infoln("scheduled enrichment of all trackdbs")
	return nil
}

func (s *CronScheduler) RunModule(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.Config.Schedule, func() {
		if err := s.Trigger(); err != nil {
			Logger.Log.Errorf("cannot schedule enrichment: %v", err)
		}
	})
	if err != nil {
		return errors.Wrapf(err, "invalid enrichment schedule %q", s.Config.Schedule)
	}
	if s.Config.RunOnStart {
		if err := s.Trigger(); err != nil {
			return err
		}
	}

	c.Start()
	<-ctx.Done()
	// Wait for a running trigger to finish.
	<-c.Stop().Done()
	return nil
}

func (s *CronScheduler) Name() string {
	return s.Config.Name
}
