package modules

import (
	"context"

	"github.com/Luismorlan/trackhubs/scheduler"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
)

// StatsdClient is the part of *statsd.Client the reporter uses.
type StatsdClient interface {
	Incr(name string, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Gauge(name string, value float64, tags []string, rate float64) error
}

type ReporterConfig struct {
	Name string
}

// Reporter's job is to listen to enrichment reports and send them to
// Datadog for monitoring purpose.
type Reporter struct {
	Config ReporterConfig

	Statsd StatsdClient

	EventBus *gochannel.GoChannel
}

func NewReporter(config ReporterConfig, statsd StatsdClient, e *gochannel.GoChannel) *Reporter {
	return &Reporter{
		Config:   config,
		Statsd:   statsd,
		EventBus: e,
	}
}

// ReportEnrichment sends the counters of one report.
func ReportEnrichment(report *scheduler.EnrichmentReport, statsd StatsdClient) {
	result := "result:ok"
	if report.Error != "" {
		result = "result:error"
	}
	tags := []string{result}

	if err := statsd.Incr(scheduler.DDOG_ENRICHMENT_RUN_COUNTER, tags, 1); err != nil {
		Logger.Log.Infoln("cannot report enrichment run")
	}
	if err := statsd.Count(scheduler.DDOG_TRACKDB_ENRICHED_COUNTER, int64(report.Succeeded()), tags, 1); err != nil {
		Logger.Log.Infoln("cannot report enriched trackdbs")
	}
	if err := statsd.Count(scheduler.DDOG_TRACKDB_FAILED_COUNTER, int64(len(report.Failed)), tags, 1); err != nil {
		Logger.Log.Infoln("cannot report failed trackdbs")
	}
	if err := statsd.Gauge(scheduler.DDOG_ENRICHMENT_DURATION_MILLIS, float64(report.DurationMs), tags, 1); err != nil {
		Logger.Log.Infoln("cannot report enrichment duration")
	}
}

func (r *Reporter) RunModule(ctx context.Context) error {
	messages, err := r.EventBus.Subscribe(ctx, scheduler.TOPIC_ENRICHMENT_REPORT)
	if err != nil {
		return errors.Wrap(err, "subscribe to enrichment reports")
	}

	for msg := range messages {
		msg.Ack()

		report := &scheduler.EnrichmentReport{}
		if err := scheduler.DecodeMessage(msg, report); err != nil {
			Logger.Log.Errorf("dropping enrichment report: %v", err)
			continue
		}
		ReportEnrichment(report, r.Statsd)
	}
	return nil
}

func (r *Reporter) Name() string {
	return r.Config.Name
}
