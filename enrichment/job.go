// Package enrichment refreshes the advisory part of stored trackdbs: the
// liveness status and the search projection. Structural data is never
// touched.
package enrichment

import (
	"context"
	"time"

	"github.com/Luismorlan/trackhubs/liveness"
	"github.com/Luismorlan/trackhubs/model"
	"github.com/Luismorlan/trackhubs/search"
	"github.com/Luismorlan/trackhubs/store"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Failure records one trackdb that could not be enriched.
type Failure struct {
	TrackdbID uint
	Err       error
}

type Report struct {
	Processed int
	Failed    []Failure
}

func (r *Report) Succeeded() int {
	return r.Processed - len(r.Failed)
}

// FailureHandler decides whether a batch goes on after a failure.
type FailureHandler func(trackdbID uint, err error) bool

// ContinueOnFailure never stops the batch.
func ContinueOnFailure(uint, error) bool { return true }

type Job struct {
	store   *store.Store
	checker *liveness.Checker
	indexer search.Indexer
	now     func() time.Time
}

func NewJob(s *store.Store, checker *liveness.Checker, indexer search.Indexer) *Job {
	return &Job{store: s, checker: checker, indexer: indexer, now: time.Now}
}

// EnrichOne re-checks the data files of one trackdb, stores the new status
// and re-projects the trackdb to the search index. A search index failure is
// logged only. store.ErrNotFound is returned for an unknown id.
func (j *Job) EnrichOne(ctx context.Context, trackdbID uint) (*model.TracksStatus, error) {
	trackdb, err := j.store.GetTrackdb(ctx, trackdbID)
	if err != nil {
		return nil, err
	}
	tracks, err := j.store.ListTracks(ctx, trackdbID)
	if err != nil {
		return nil, err
	}
	status := j.checker.Check(ctx, tracks, trackdb.SourceURL)
	updated := j.now().Unix()
	if err := j.store.UpdateTrackdbStatus(ctx, trackdbID, status, updated); err != nil {
		return nil, err
	}
	if err := trackdb.SetStatus(status); err != nil {
		return nil, errors.Wrap(err, "encode status")
	}
	trackdb.Updated = updated

	j.project(ctx, trackdb, tracks)
	return status, nil
}

func (j *Job) project(ctx context.Context, trackdb *model.Trackdb, tracks []model.Track) {
	logger := Logger.Log.WithFields(logrus.Fields{"trackdb_id": trackdb.ID, "hub": trackdb.Hub.URL})
	doc, err := search.BuildDocument(trackdb, tracks)
	if err != nil {
		logger.Errorf("cannot build search document: %v", err)
		return
	}
	if err := j.indexer.Index(ctx, doc); err != nil {
		logger.Errorf("cannot index trackdb, the search index is stale until the next enrichment: %v", err)
	}
}

// EnrichAll enriches every stored trackdb.
func (j *Job) EnrichAll(ctx context.Context, onFailure FailureHandler) (*Report, error) {
	ids, err := j.store.ListTrackdbIDs(ctx)
	if err != nil {
		return nil, err
	}
	return j.EnrichIDs(ctx, ids, onFailure), nil
}

// EnrichIDs enriches the given trackdbs in order. A failing trackdb is
// recorded in the report, then onFailure decides whether to go on.
func (j *Job) EnrichIDs(ctx context.Context, ids []uint, onFailure FailureHandler) *Report {
	if onFailure == nil {
		onFailure = ContinueOnFailure
	}
	report := &Report{}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		report.Processed++
		status, err := j.EnrichOne(ctx, id)
		if err != nil {
			Logger.Log.WithField("trackdb_id", id).Errorf("enrichment failed: %v", err)
			report.Failed = append(report.Failed, Failure{TrackdbID: id, Err: err})
			if !onFailure(id, err) {
				break
			}
			continue
		}
		Logger.Log.WithField("trackdb_id", id).Infof("enriched: %s", status.Message)
	}
	return report
}
