// Package translator drives one hub submission end to end: validation,
// descriptor parsing, reference resolution, the structural writes and the
// advisory liveness and search refresh.
package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Luismorlan/trackhubs/enrichment"
	"github.com/Luismorlan/trackhubs/hubcheck"
	"github.com/Luismorlan/trackhubs/hubparser"
	"github.com/Luismorlan/trackhubs/liveness"
	"github.com/Luismorlan/trackhubs/model"
	"github.com/Luismorlan/trackhubs/reference"
	"github.com/Luismorlan/trackhubs/search"
	"github.com/Luismorlan/trackhubs/store"
	"github.com/Luismorlan/trackhubs/tracktree"
	"github.com/Luismorlan/trackhubs/utils"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	keyGenomesFile    = "genomesFile"
	keyTrackDb        = "trackDb"
	keyShortLabel     = "shortLabel"
	keyLongLabel      = "longLabel"
	keyEmail          = "email"
	keyDescriptionURL = "descriptionUrl"

	hubLockPrefix = "hub:"
)

// DescriptorParser fetches and parses one descriptor file.
type DescriptorParser interface {
	ParseURL(ctx context.Context, rawURL string) ([]hubparser.Record, error)
}

type SubmitRequest struct {
	URL string
	// DataType defaults to genomics, matched case-insensitively.
	DataType string
	// Assemblies restricts the submission to these genome tokens when set.
	Assemblies   []string
	SkipHubCheck bool
	UserID       string
	UserName     string
}

type TrackdbResult struct {
	ID            uint   `json:"id"`
	Assembly      string `json:"assembly"`
	StatusMessage string `json:"status_message"`
}

type SubmitResult struct {
	Message  string          `json:"success"`
	HubID    uint            `json:"hub_id"`
	Trackdbs []TrackdbResult `json:"trackdbs"`
	Warnings []string        `json:"warnings,omitempty"`
}

type Translator struct {
	parser   DescriptorParser
	resolver *reference.Resolver
	store    *store.Store
	hubCheck hubcheck.Checker
	enricher *enrichment.Job
	indexer  search.Indexer
	locker   utils.HubLocker
	now      func() time.Time
}

func NewTranslator(
	parser DescriptorParser,
	resolver *reference.Resolver,
	s *store.Store,
	hubCheck hubcheck.Checker,
	checker *liveness.Checker,
	indexer search.Indexer,
	locker utils.HubLocker,
) *Translator {
	return &Translator{
		parser:   parser,
		resolver: resolver,
		store:    s,
		hubCheck: hubCheck,
		enricher: enrichment.NewJob(s, checker, indexer),
		indexer:  indexer,
		locker:   locker,
		now:      time.Now,
	}
}

// genome is one genomes.txt entry, parsed and resolved before any write.
type genome struct {
	token      string
	dump       *model.GenomeAssemblyDump
	trackdbURL string
	records    []hubparser.Record
}

// Submit registers or updates the hub at req.URL for req.UserID. Every error
// returned is a *SubmissionError.
//
// All descriptors are fetched and every genome resolved before the first
// write, then the structural rows of the whole hub are written in a single
// transaction. Liveness and the search projection run after the commit and
// never fail the submission.
func (t *Translator) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	hubURL := strings.TrimSpace(req.URL)
	if hubURL == "" {
		return nil, newError(KindInvalidInput, MsgMissingURL, nil)
	}
	if req.UserID == "" {
		return nil, newError(KindForbidden, "An authenticated user is required to submit a hub", nil)
	}
	dataType, err := parseDataType(req.DataType)
	if err != nil {
		return nil, err
	}
	logger := Logger.Log.WithFields(logrus.Fields{"hub": hubURL, "user": req.UserID})

	unlock, err := t.locker.TryLock(ctx, hubLockPrefix+hubURL)
	if err != nil {
		if errors.Is(err, utils.ErrLockBusy) {
			return nil, newError(KindConflict, MsgLockBusy, err)
		}
		return nil, internalError(errors.Wrap(err, "acquire hub lock"))
	}
	defer unlock()

	// Ownership is read under the lock, a submission of the owner that held
	// it may have just created the hub.
	if err := checkOwnership(ctx, t.store, hubURL, req.UserID); err != nil {
		return nil, err
	}

	warnings := []string{}
	if !req.SkipHubCheck {
		result, err := t.hubCheck.Check(ctx, hubURL)
		if err != nil {
			return nil, newError(KindUpstream, msgHubCheckDown, err)
		}
		if result.IsError() {
			e := newError(KindInvalidInput, result.Message, nil)
			e.Details = result.Details
			return nil, e
		}
		if result.Status == hubcheck.StatusWarning {
			warnings = append(warnings, result.Details...)
		}
	}

	hubRecord, err := t.parseHub(ctx, hubURL)
	if err != nil {
		return nil, err
	}
	genomes, err := t.parseGenomes(ctx, hubURL, hubRecord, req.Assemblies)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{Message: MsgSuccess, Trackdbs: []TrackdbResult{}, Warnings: warnings}
	var stored []*model.Trackdb
	var stale []uint
	err = t.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		result.HubID, stored, stale, err = t.write(ctx, tx, req, hubURL, hubRecord, dataType, genomes)
		return err
	})
	if err != nil {
		logger.Warnf("submission rolled back: %v", err)
		return nil, AsSubmissionError(err)
	}
	logger.Infof("hub stored with %d trackdbs", len(stored))

	for _, id := range stale {
		if err := t.indexer.Delete(ctx, id); err != nil {
			logger.WithField("trackdb_id", id).Warnf("cannot remove stale trackdb from the search index: %v", err)
		}
	}
	for i, trackdb := range stored {
		entry := TrackdbResult{ID: trackdb.ID, Assembly: genomes[i].dump.AssemblyName}
		status, err := t.enricher.EnrichOne(ctx, trackdb.ID)
		if err != nil {
			logger.WithField("trackdb_id", trackdb.ID).Errorf("cannot refresh trackdb status: %v", err)
		} else {
			entry.StatusMessage = status.Message
		}
		result.Trackdbs = append(result.Trackdbs, entry)
	}
	return result, nil
}

func parseDataType(raw string) (model.DataTypeName, error) {
	if strings.TrimSpace(raw) == "" {
		return model.DefaultDataType, nil
	}
	dataType := model.DataTypeName(strings.ToLower(strings.TrimSpace(raw)))
	if !dataType.IsValid() {
		msg := fmt.Sprintf(msgInvalidType, dataType, strings.Join(model.AllDataTypeNameStrings(), ", "))
		return "", newError(KindInvalidInput, msg, nil)
	}
	return dataType, nil
}

func checkOwnership(ctx context.Context, s *store.Store, hubURL, userID string) error {
	existing, err := s.FindHubByURL(ctx, hubURL)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return internalError(err)
	}
	if existing.OwnerID != userID {
		return newError(KindForbidden, fmt.Sprintf(msgNotOwner, hubURL), nil)
	}
	return nil
}

// checkTrackdbOwnership refuses a trackDb url already registered under a hub
// of another user.
func checkTrackdbOwnership(ctx context.Context, s *store.Store, trackdbURL, userID string) error {
	owner, err := s.FindTrackdbOwner(ctx, trackdbURL)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return internalError(err)
	}
	if owner != userID {
		return newError(KindForbidden, fmt.Sprintf(msgTrackdbOwned, trackdbURL), nil)
	}
	return nil
}

// parseURL maps parser failures to submission errors.
func (t *Translator) parseURL(ctx context.Context, rawURL string) ([]hubparser.Record, error) {
	records, err := t.parser.ParseURL(ctx, rawURL)
	if err == nil {
		return records, nil
	}
	var noResult *hubparser.NoResultError
	if errors.As(err, &noResult) && noResult.Upstream {
		return nil, newError(KindUpstream, fmt.Sprintf(msgUnreachable, rawURL), err)
	}
	return nil, newError(KindInvalidInput, MsgBadURL, err)
}

func (t *Translator) parseHub(ctx context.Context, hubURL string) (hubparser.Record, error) {
	records, err := t.parseURL(ctx, hubURL)
	if err != nil {
		return hubparser.Record{}, err
	}
	for _, r := range records {
		if r.Has(hubparser.KeyHub) {
			if r.Value(keyGenomesFile) == "" {
				return hubparser.Record{}, newError(KindInvalidInput, fmt.Sprintf(msgNoGenomesFile, hubURL), nil)
			}
			return r, nil
		}
	}
	return hubparser.Record{}, newError(KindInvalidInput, MsgBadURL, nil)
}

// parseGenomes reads genomes.txt and every trackDb.txt it references, and
// resolves each genome against the reference dump. Genome and trackDb paths
// are relative to the hub.txt directory.
func (t *Translator) parseGenomes(ctx context.Context, hubURL string, hub hubparser.Record, only []string) ([]genome, error) {
	genomesURL := liveness.FixBigDataURL(hub.Value(keyGenomesFile), hubURL)
	records, err := t.parseURL(ctx, genomesURL)
	if err != nil {
		return nil, err
	}

	genomes := []genome{}
	seen := map[string]bool{}
	for _, r := range records {
		if !r.Has(hubparser.KeyGenome) {
			continue
		}
		token := utils.FirstWord(r.Value(hubparser.KeyGenome))
		if len(only) > 0 && !utils.ContainsString(only, token) {
			continue
		}
		trackDb := r.Value(keyTrackDb)
		if trackDb == "" {
			return nil, newError(KindInvalidInput, fmt.Sprintf(msgNoTrackDb, token), nil)
		}
		trackdbURL := liveness.FixBigDataURL(trackDb, hubURL)
		if seen[trackdbURL] {
			continue
		}
		seen[trackdbURL] = true

		dump, err := t.resolver.Resolve(ctx, token)
		if err != nil {
			if errors.Is(err, reference.ErrAssemblyNotFound) {
				return nil, newError(KindInvalidInput, err.Error(), err)
			}
			return nil, internalError(err)
		}
		trackRecords, err := t.parseURL(ctx, trackdbURL)
		if err != nil {
			return nil, err
		}
		genomes = append(genomes, genome{token: token, dump: dump, trackdbURL: trackdbURL, records: trackRecords})
	}

	if len(genomes) == 0 {
		if len(only) > 0 {
			return nil, newError(KindInvalidInput, fmt.Sprintf(msgNoAssembly, strings.Join(only, ", "), genomesURL), nil)
		}
		return nil, newError(KindInvalidInput, fmt.Sprintf(msgNoGenome, genomesURL), nil)
	}
	return genomes, nil
}

// write stores the hub and its genomes through tx. It returns the hub id,
// the stored trackdbs in genome order and the ids of trackdbs the hub no
// longer declares.
func (t *Translator) write(
	ctx context.Context,
	tx *store.Store,
	req SubmitRequest,
	hubURL string,
	record hubparser.Record,
	dataType model.DataTypeName,
	genomes []genome,
) (uint, []*model.Trackdb, []uint, error) {
	if err := checkOwnership(ctx, tx, hubURL, req.UserID); err != nil {
		return 0, nil, nil, err
	}
	lookups, err := tx.LoadLookups(ctx)
	if err != nil {
		return 0, nil, nil, err
	}
	owner, err := tx.GetOrCreateUser(ctx, req.UserID, req.UserName)
	if err != nil {
		return 0, nil, nil, err
	}
	hub := &model.Hub{
		Name:           record.Value(hubparser.KeyHub),
		ShortLabel:     record.Value(keyShortLabel),
		LongLabel:      record.Value(keyLongLabel),
		URL:            hubURL,
		DescriptionURL: record.Value(keyDescriptionURL),
		Email:          record.Value(keyEmail),
		DataTypeID:     lookups.DataTypeID(dataType),
		OwnerID:        owner.ID,
	}
	if err := tx.UpsertHub(ctx, hub); err != nil {
		return 0, nil, nil, err
	}

	now := t.now().Unix()
	builder := tracktree.NewBuilder(tx, lookups)
	stored := make([]*model.Trackdb, 0, len(genomes))
	keep := make([]uint, 0, len(genomes))
	for _, g := range genomes {
		species, err := tx.GetOrCreateSpecies(ctx, reference.SpeciesFromDump(g.dump))
		if err != nil {
			return 0, nil, nil, err
		}
		assembly, err := tx.GetOrCreateAssembly(ctx, t.resolver.AssemblyFromDump(g.dump, g.token))
		if err != nil {
			return 0, nil, nil, err
		}
		if err := checkTrackdbOwnership(ctx, tx, g.trackdbURL, owner.ID); err != nil {
			return 0, nil, nil, err
		}
		trackdb := &model.Trackdb{
			HubID:          hub.ID,
			AssemblyID:     assembly.ID,
			SpeciesID:      species.ID,
			Public:         true,
			Version:        model.DefaultTrackdbVersion,
			Created:        now,
			Updated:        now,
			SourceURL:      g.trackdbURL,
			SourceChecksum: utils.TextToMd5Hash(g.trackdbURL),
		}
		if err := tx.UpsertTrackdb(ctx, trackdb); err != nil {
			return 0, nil, nil, err
		}

		built, err := builder.Build(ctx, trackdb.ID, g.trackdbURL, g.records)
		if err != nil {
			var parentErr *tracktree.ParentError
			if errors.As(err, &parentErr) {
				return 0, nil, nil, newError(KindInvalidInput, fmt.Sprintf("%s (%s)", parentErr.Error(), g.trackdbURL), err)
			}
			return 0, nil, nil, err
		}
		if _, err := tx.DeleteTracksExcept(ctx, trackdb.ID, built.TrackIDs()); err != nil {
			return 0, nil, nil, err
		}
		if err := trackdb.SetConfiguration(built.Configuration); err != nil {
			return 0, nil, nil, errors.Wrap(err, "encode configuration")
		}
		if err := trackdb.SetData(built.Data); err != nil {
			return 0, nil, nil, errors.Wrap(err, "encode data")
		}
		if err := tx.UpdateTrackdbContent(ctx, trackdb); err != nil {
			return 0, nil, nil, err
		}
		stored = append(stored, trackdb)
		keep = append(keep, trackdb.ID)
	}

	stale, err := tx.DeleteTrackdbsExcept(ctx, hub.ID, keep)
	if err != nil {
		return 0, nil, nil, err
	}
	return hub.ID, stored, stale, nil
}
