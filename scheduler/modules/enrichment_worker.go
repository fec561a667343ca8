package modules

import (
	"context"
	"time"

	"github.com/Luismorlan/trackhubs/enrichment"
	"github.com/Luismorlan/trackhubs/scheduler"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Enricher runs enrichment over trackdbs. We create this abstraction so
// that tests can inject a fake instead of a store backed job.
type Enricher interface {
	EnrichAll(ctx context.Context, onFailure enrichment.FailureHandler) (*enrichment.Report, error)
	EnrichIDs(ctx context.Context, ids []uint, onFailure enrichment.FailureHandler) *enrichment.Report
}

type EnrichmentWorkerConfig struct {
	Name string
}

// EnrichmentWorker consumes enrichment requests one at a time and publishes
// a report for each of them.
type EnrichmentWorker struct {
	Config EnrichmentWorkerConfig

	Enricher Enricher

	EventBus *gochannel.GoChannel
}

func NewEnrichmentWorker(config EnrichmentWorkerConfig, enricher Enricher, e *gochannel.GoChannel) *EnrichmentWorker {
	return &EnrichmentWorker{
		Config:   config,
		Enricher: enricher,
		EventBus: e,
	}
}

// Process runs one request. Failures of single trackdbs never stop a
// scheduled run.
func (w *EnrichmentWorker) Process(ctx context.Context, req *scheduler.EnrichmentRequest) *scheduler.EnrichmentReport {
	start := time.Now()
	out := &scheduler.EnrichmentReport{RequestID: req.RequestID, Failed: []uint{}}

	var report *enrichment.Report
	if req.All() {
		var err error
		report, err = w.Enricher.EnrichAll(ctx, enrichment.ContinueOnFailure)
		if err != nil {
			out.Error = err.Error()
		}
	} else {
		report = w.Enricher.EnrichIDs(ctx, req.TrackdbIDs, enrichment.ContinueOnFailure)
	}

	if report != nil {
		out.Processed = report.Processed
		for _, f := range report.Failed {
			out.Failed = append(out.Failed, f.TrackdbID)
		}
	}
	out.DurationMs = time.Since(start).Milliseconds()
	return out
}

func (w *EnrichmentWorker) RunModule(ctx context.Context) error {
	messages, err := w.EventBus.Subscribe(ctx, scheduler.TOPIC_PENDING_ENRICHMENT)
	if err != nil {
		return errors.Wrap(err, "subscribe to enrichment requests")
	}

	for msg := range messages {
		msg.Ack()

		req := &scheduler.EnrichmentRequest{}
		if err := scheduler.DecodeMessage(msg, req); err != nil {
			Logger.Log.Errorf("dropping enrichment request: %v", err)
			continue
		}
		report := w.Process(ctx, req)
		Logger.Log.WithFields(logrus.Fields{
			"request_id": report.RequestID,
			"processed":  report.Processed,
			"failed":     len(report.Failed),
		}).Infoln("enrichment request done")

		out, err := scheduler.NewMessage(report)
		if err != nil {
			return err
		}
		if err := w.EventBus.Publish(scheduler.TOPIC_ENRICHMENT_REPORT, out); err != nil {
			return errors.Wrap(err, "publish enrichment report")
		}
	}
	return nil
}

func (w *EnrichmentWorker) Name() string {
	return w.Config.Name
}
