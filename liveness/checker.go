package liveness

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/Luismorlan/trackhubs/model"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Checker probes every data file of a trackdb with bounded concurrency and
// summarises the outcome. It never fails: unreachable files are reported in
// the returned status.
type Checker struct {
	prober      Prober
	concurrency int64
	timeout     time.Duration
	now         func() time.Time
}

func NewChecker(prober Prober, concurrency int, timeout time.Duration) *Checker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Checker{
		prober:      prober,
		concurrency: int64(concurrency),
		timeout:     timeout,
		now:         time.Now,
	}
}

type brokenTrack struct {
	name   string
	url    string
	reason string
}

// Check probes tracks of the trackdb whose trackDb.txt lives at trackdbURL.
// Tracks without a data file count towards the total only.
func (c *Checker) Check(ctx context.Context, tracks []model.Track, trackdbURL string) *model.TracksStatus {
	status := &model.TracksStatus{
		LastUpdate: c.now().Unix(),
		Tracks:     model.TracksCount{Total: len(tracks)},
	}

	sem := semaphore.NewWeighted(c.concurrency)
	g, gctx := errgroup.WithContext(ctx)
	var m sync.Mutex
	broken := []brokenTrack{}

	for i := range tracks {
		track := tracks[i]
		if !track.HasData() {
			continue
		}
		status.Tracks.WithData.Total++
		resolved := resolveStored(track.BigDataURL, trackdbURL)

		g.Go(func() error {
			var result ProbeResult
			if err := sem.Acquire(gctx, 1); err != nil {
				result = ProbeResult{Reason: err.Error()}
			} else {
				result = c.probe(gctx, resolved)
				sem.Release(1)
			}
			if !result.OK() {
				m.Lock()
				broken = append(broken, brokenTrack{name: track.Name, url: resolved, reason: result.ErrorString()})
				m.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	status.Tracks.WithData.TotalKO = len(broken)
	if len(broken) == 0 {
		status.Message = model.StatusMessageOK
		return status
	}
	status.Message = model.StatusMessageUnavailable
	status.Tracks.WithData.KO = make(map[string][2]string, len(broken))
	for _, b := range broken {
		status.Tracks.WithData.KO[b.name] = [2]string{b.url, b.reason}
	}
	Logger.Log.WithField("trackdb", trackdbURL).Infof("%d of %d data files unavailable", len(broken), status.Tracks.WithData.Total)
	return status
}

func (c *Checker) probe(ctx context.Context, rawURL string) ProbeResult {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.prober.Probe(ctx, rawURL)
}

// resolveStored keeps urls that already carry a scheme. Stored data urls were
// resolved at submission, joining them again would break single label hosts
// the hub itself lives on.
func resolveStored(bigDataURL, trackdbURL string) string {
	if u, err := url.Parse(bigDataURL); err == nil && u.IsAbs() && u.Host != "" {
		return bigDataURL
	}
	return FixBigDataURL(bigDataURL, trackdbURL)
}
