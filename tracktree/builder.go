// Package tracktree turns the track stanzas of one trackDb.txt into stored
// track rows and the nested configuration tree of the trackdb.
package tracktree

import (
	"context"
	"fmt"

	"github.com/Luismorlan/trackhubs/hubparser"
	"github.com/Luismorlan/trackhubs/liveness"
	"github.com/Luismorlan/trackhubs/model"
	"github.com/Luismorlan/trackhubs/utils"
	Logger "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	keyShortLabel = "shortLabel"
	keyLongLabel  = "longLabel"
	keyBigDataURL = "bigDataUrl"
	keyHTML       = "html"
	keyType       = "type"
	keyVisibility = "visibility"
	keyParent     = "parent"

	// maxDepth is track, subtrack, sub-subtrack.
	maxDepth = 3
)

// Keys stored in dedicated track columns rather than in additional
// properties.
var columnKeys = map[string]bool{
	hubparser.KeyTrack: true,
	hubparser.URLKey:   true,
	keyShortLabel:      true,
	keyLongLabel:       true,
	keyBigDataURL:      true,
	keyHTML:            true,
	keyType:            true,
	keyVisibility:      true,
	keyParent:          true,
}

var (
	ErrParentNotFound = errors.New("parent track not found")
	ErrInvalidParent  = errors.New("invalid parent track")
)

// ParentError names the track whose parent could not be linked.
type ParentError struct {
	Track  string
	Parent string
	Reason error
}

func (e *ParentError) Error() string {
	if errors.Is(e.Reason, ErrParentNotFound) {
		return fmt.Sprintf("track '%s' declares parent '%s' which isn't defined in the trackDb file", e.Track, e.Parent)
	}
	return fmt.Sprintf("track '%s' can't have '%s' as parent: %s", e.Track, e.Parent, e.Reason.Error())
}

func (e *ParentError) Unwrap() error {
	return e.Reason
}

// TrackWriter persists track rows. It is implemented by the relational store,
// usually bound to the submission transaction.
type TrackWriter interface {
	UpsertTrack(ctx context.Context, track *model.Track) error
	SetTrackParent(ctx context.Context, trackID uint, parentID *uint) error
}

// Result is what one trackdb build produced.
type Result struct {
	// Stored tracks in file order.
	Tracks        []*model.Track
	Configuration model.TrackConfigTree
	Data          []model.TrackSummary
}

// TrackIDs lists the ids of the stored tracks.
func (r *Result) TrackIDs() []uint {
	ids := make([]uint, 0, len(r.Tracks))
	for _, t := range r.Tracks {
		ids = append(ids, t.ID)
	}
	return ids
}

type Builder struct {
	writer  TrackWriter
	lookups *model.Lookups
}

func NewBuilder(writer TrackWriter, lookups *model.Lookups) *Builder {
	return &Builder{writer: writer, lookups: lookups}
}

// entry ties a stored track to its stanza and configuration node.
type entry struct {
	track  *model.Track
	record hubparser.Record
	node   *model.TrackConfig
	parent *entry
}

// Build stores every track stanza of records under trackdbID and links
// children to their parents. Tracks are created in a first pass so a parent
// may be declared after its children. When two stanzas share a name the
// first one is used for parent lookup and for the configuration tree, and a
// later stanza with the same data file is ignored altogether.
func (b *Builder) Build(ctx context.Context, trackdbID uint, trackdbURL string, records []hubparser.Record) (*Result, error) {
	result := &Result{
		Tracks:        []*model.Track{},
		Configuration: model.TrackConfigTree{},
		Data:          []model.TrackSummary{},
	}
	byName := map[string]*entry{}
	entries := []*entry{}
	seenIDs := map[uint]bool{}

	for _, record := range records {
		if !record.Has(hubparser.KeyTrack) {
			continue
		}
		name := utils.FirstWord(record.Value(hubparser.KeyTrack))
		if name == "" {
			Logger.Log.WithField("trackdb", trackdbURL).Warn("skipping track stanza with an empty name")
			continue
		}
		track, err := b.newTrack(trackdbID, trackdbURL, name, record)
		if err != nil {
			return nil, err
		}
		// Same name and data file is the same row, the first stanza owns it.
		if first, dup := byName[name]; dup && first.track.BigDataURL == track.BigDataURL {
			Logger.Log.WithFields(logrus.Fields{
				"trackdb": trackdbURL,
				"track":   name,
			}).Warn("repeated track stanza ignored")
			continue
		}
		if err := b.writer.UpsertTrack(ctx, track); err != nil {
			return nil, errors.Wrapf(err, "store track %s", name)
		}

		e := &entry{track: track, record: record}
		entries = append(entries, e)
		if !seenIDs[track.ID] {
			seenIDs[track.ID] = true
			result.Tracks = append(result.Tracks, track)
			result.Data = append(result.Data, model.TrackSummary{ID: track.Name, Name: track.LongLabel})
		}
		if _, dup := byName[name]; dup {
			Logger.Log.WithFields(logrus.Fields{
				"trackdb": trackdbURL,
				"track":   name,
			}).Warn("duplicate track name, the first definition is kept in the configuration")
			continue
		}
		e.node = model.NewTrackConfig(name, withoutURL(record.Fields))
		byName[name] = e
		result.Configuration[name] = e.node
	}

	for _, e := range entries {
		if !e.record.Has(keyParent) {
			continue
		}
		parentName := utils.FirstWord(e.record.Value(keyParent))
		parent, ok := byName[parentName]
		if !ok {
			return nil, &ParentError{Track: e.track.Name, Parent: parentName, Reason: ErrParentNotFound}
		}
		if parent.track.ID == e.track.ID {
			return nil, &ParentError{Track: e.track.Name, Parent: parentName, Reason: errors.Wrap(ErrInvalidParent, "a track can't be its own parent")}
		}
		e.parent = parent
		e.track.ParentID = &parent.track.ID
		if err := b.writer.SetTrackParent(ctx, e.track.ID, e.track.ParentID); err != nil {
			return nil, errors.Wrapf(err, "link track %s to %s", e.track.Name, parentName)
		}
	}

	// Reject cycles and chains deeper than sub-subtracks before nesting, the
	// shared nodes must form a tree.
	for _, e := range entries {
		depth := 1
		for p := e.parent; p != nil; p = p.parent {
			depth++
			if depth > maxDepth {
				reason := errors.Wrapf(ErrInvalidParent, "nesting is limited to %d levels or has a cycle", maxDepth)
				return nil, &ParentError{Track: e.track.Name, Parent: e.parent.track.Name, Reason: reason}
			}
		}
	}

	for _, e := range entries {
		if e.parent == nil || e.node == nil {
			continue
		}
		e.parent.node.AddMember(e.node)
	}
	return result, nil
}

func (b *Builder) newTrack(trackdbID uint, trackdbURL, name string, record hubparser.Record) (*model.Track, error) {
	track := &model.Track{
		TrackdbID:  trackdbID,
		Name:       name,
		ShortLabel: record.Value(keyShortLabel),
		LongLabel:  record.Value(keyLongLabel),
		HTML:       record.Value(keyHTML),
	}
	if big := record.Value(keyBigDataURL); big != "" {
		track.BigDataURL = liveness.FixBigDataURL(big, trackdbURL)
	}
	if record.Has(keyType) {
		fileType := utils.FirstWord(record.Value(keyType))
		track.FileTypeID = b.lookups.FileTypeID(fileType)
		if track.FileTypeID == nil {
			Logger.Log.WithFields(logrus.Fields{
				"trackdb": trackdbURL,
				"track":   name,
			}).Warnf("unknown file type '%s'", fileType)
		}
	}
	track.VisibilityID = b.lookups.VisibilityID(utils.FirstWord(record.Value(keyVisibility)))

	extra := map[string]string{}
	for k, v := range record.Fields {
		if !columnKeys[k] {
			extra[k] = v
		}
	}
	if err := track.SetAdditionalProperties(extra); err != nil {
		return nil, errors.Wrapf(err, "encode properties of track %s", name)
	}
	return track, nil
}

func withoutURL(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if k != hubparser.URLKey {
			out[k] = v
		}
	}
	return out
}
