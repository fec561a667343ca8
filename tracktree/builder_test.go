package tracktree

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Luismorlan/trackhubs/hubparser"
	"github.com/Luismorlan/trackhubs/model"
	"github.com/Luismorlan/trackhubs/store"
	"github.com/Luismorlan/trackhubs/utils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackdbURL = "https://example.org/hub/hg38/trackDb.txt"

// memoryWriter hands out ids per (trackdb, name, url) like the store does.
type memoryWriter struct {
	ids     map[string]uint
	parents map[uint]*uint
	upserts []string
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{ids: map[string]uint{}, parents: map[uint]*uint{}}
}

func (w *memoryWriter) UpsertTrack(_ context.Context, track *model.Track) error {
	key := track.Name + "|" + track.BigDataURL
	w.upserts = append(w.upserts, track.Name+":"+track.ShortLabel)
	id, ok := w.ids[key]
	if !ok {
		id = uint(len(w.ids) + 1)
		w.ids[key] = id
	}
	track.ID = id
	return nil
}

func (w *memoryWriter) SetTrackParent(_ context.Context, trackID uint, parentID *uint) error {
	w.parents[trackID] = parentID
	return nil
}

var testLookups = &model.Lookups{
	FileTypes:    map[string]uint{"bigBed": 1, "bigWig": 2},
	Visibilities: map[string]uint{"hide": 10, "full": 11},
}

func parse(t *testing.T, text string) []hubparser.Record {
	records, err := hubparser.Parse(strings.NewReader(text), trackdbURL)
	require.Nil(t, err)
	return records
}

func build(t *testing.T, w TrackWriter, text string) (*Result, error) {
	return NewBuilder(w, testLookups).Build(context.Background(), 1, trackdbURL, parse(t, text))
}

func TestSubtrackNesting(t *testing.T) {
	result, err := build(t, newMemoryWriter(), `track P
compositeTrack on
shortLabel parent

track C on
parent P off
bigDataUrl c.bb
type bigBed 6 +
longLabel Child track
`)
	require.Nil(t, err)

	require.Contains(t, result.Configuration, "P")
	require.Contains(t, result.Configuration, "C")
	child, ok := result.Configuration["P"].Member("C")
	require.True(t, ok)
	// The root entry and the member entry are the same node.
	assert.Same(t, result.Configuration["C"], child)
	assert.Equal(t, "P off", child.Fields["parent"])
	assert.NotContains(t, child.Fields, hubparser.URLKey)

	require.Len(t, result.Tracks, 2)
	c := result.Tracks[1]
	assert.Equal(t, "C", c.Name)
	assert.Equal(t, "https://example.org/hub/hg38/c.bb", c.BigDataURL)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, result.Tracks[0].ID, *c.ParentID)
	assert.Equal(t, uint(1), *c.FileTypeID)
	assert.Equal(t, uint(10), *c.VisibilityID)

	assert.Equal(t, []model.TrackSummary{{ID: "P", Name: ""}, {ID: "C", Name: "Child track"}}, result.Data)
}

func TestSubSubtrackNesting(t *testing.T) {
	// Declared child first, the order must not matter.
	result, err := build(t, newMemoryWriter(), `track C
parent P
bigDataUrl http://data.example.org/c.bw
type bigWig

track P
parent G

track G
superTrack on
visibility full
`)
	require.Nil(t, err)

	p, ok := result.Configuration["G"].Member("P")
	require.True(t, ok)
	c, ok := p.Member("C")
	require.True(t, ok)
	assert.Equal(t, "http://data.example.org/c.bw", c.Fields["bigDataUrl"])
	assert.Len(t, result.Configuration, 3)

	b, err := json.Marshal(result.Configuration)
	require.Nil(t, err)
	decoded := model.TrackConfigTree{}
	require.Nil(t, json.Unmarshal(b, &decoded))
	nested, ok := decoded["G"].Members["P"].Member("C")
	require.True(t, ok)
	assert.Equal(t, "bigWig", nested.Fields["type"])
	assert.Equal(t, uint(11), *result.Tracks[2].VisibilityID)
}

func TestContainerWithoutDataAndUnknownType(t *testing.T) {
	result, err := build(t, newMemoryWriter(), `track container
type bigWeird
visibility unknown
priority 3
html docs/container
`)
	require.Nil(t, err)
	require.Len(t, result.Tracks, 1)
	track := result.Tracks[0]
	assert.False(t, track.HasData())
	assert.Nil(t, track.FileTypeID)
	assert.Equal(t, uint(10), *track.VisibilityID)
	assert.Equal(t, "docs/container", track.HTML)
	assert.JSONEq(t, `{"priority":"3"}`, string(track.AdditionalProperties))
}

func TestDuplicateNameFirstWins(t *testing.T) {
	w := newMemoryWriter()
	result, err := build(t, w, `track A
shortLabel first
bigDataUrl a1.bb

track A
shortLabel second
bigDataUrl a2.bb

track B
parent A
`)
	require.Nil(t, err)
	assert.Equal(t, "first", result.Configuration["A"].Fields["shortLabel"])
	assert.Len(t, result.Tracks, 3)
	_, ok := result.Configuration["A"].Member("B")
	assert.True(t, ok)
	assert.Equal(t, result.Tracks[0].ID, *w.parents[result.Tracks[2].ID])
}

func TestRepeatedStanzaKeepsFirstLabels(t *testing.T) {
	w := newMemoryWriter()
	result, err := build(t, w, `track A
shortLabel first
bigDataUrl a.bb

track A
shortLabel second
bigDataUrl a.bb
parent B

track B
`)
	require.Nil(t, err)
	assert.Equal(t, []string{"A:first", "B:"}, w.upserts)
	require.Len(t, result.Tracks, 2)
	assert.Equal(t, "first", result.Tracks[0].ShortLabel)
	assert.Equal(t, "first", result.Configuration["A"].Fields["shortLabel"])
	assert.Nil(t, result.Tracks[0].ParentID)
	assert.Empty(t, w.parents)
}

func TestParentErrors(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected error
	}{
		{"missing parent", "track C\nparent nowhere\n", ErrParentNotFound},
		{"self parent", "track C\nparent C\n", ErrInvalidParent},
		{"cycle", "track A\nparent B\n\ntrack B\nparent A\n", ErrInvalidParent},
		{"too deep", "track A\n\ntrack B\nparent A\n\ntrack C\nparent B\n\ntrack D\nparent C\n", ErrInvalidParent},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := build(t, newMemoryWriter(), tc.text)
			require.NotNil(t, err)
			assert.True(t, errors.Is(err, tc.expected), err.Error())
			var parentErr *ParentError
			assert.True(t, errors.As(err, &parentErr))
		})
	}

	_, err := build(t, newMemoryWriter(), "track C\nparent nowhere\n")
	assert.Equal(t, "track 'C' declares parent 'nowhere' which isn't defined in the trackDb file", err.Error())
}

func TestRebuildReusesStoredTracks(t *testing.T) {
	ctx := context.Background()
	s := store.New(utils.CreateTestDB(t))
	lookups, err := s.LoadLookups(ctx)
	require.Nil(t, err)

	user, err := s.GetOrCreateUser(ctx, "u", "")
	require.Nil(t, err)
	hub := &model.Hub{URL: "https://example.org/hub/hub.txt", OwnerID: user.ID}
	require.Nil(t, s.UpsertHub(ctx, hub))
	species, err := s.GetOrCreateSpecies(ctx, model.Species{TaxonID: 9606})
	require.Nil(t, err)
	assembly, err := s.GetOrCreateAssembly(ctx, model.Assembly{Name: "GRCh38"})
	require.Nil(t, err)
	trackdb := &model.Trackdb{HubID: hub.ID, SpeciesID: species.ID, AssemblyID: assembly.ID, SourceURL: trackdbURL}
	require.Nil(t, s.UpsertTrackdb(ctx, trackdb))

	text := "track P\ncompositeTrack on\n\ntrack C\nparent P\nbigDataUrl c.bb\ntype bigBed\n"
	first, err := NewBuilder(s, lookups).Build(ctx, trackdb.ID, trackdbURL, parse(t, text))
	require.Nil(t, err)
	second, err := NewBuilder(s, lookups).Build(ctx, trackdb.ID, trackdbURL, parse(t, text))
	require.Nil(t, err)
	assert.Equal(t, first.TrackIDs(), second.TrackIDs())

	tracks, err := s.ListTracks(ctx, trackdb.ID)
	require.Nil(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "bigBed", tracks[1].FileType.Name)
	assert.Equal(t, "hide", tracks[1].Visibility.Name)
	assert.Equal(t, tracks[0].ID, *tracks[1].ParentID)
}
