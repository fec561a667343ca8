package store

import (
	"context"
	"testing"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/Luismorlan/trackhubs/utils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *Store
	user     *model.User
	hub      *model.Hub
	assembly *model.Assembly
	species  *model.Species
	trackdb  *model.Trackdb
}

func newFixture(t *testing.T) *fixture {
	ctx := context.Background()
	s := New(utils.CreateTestDB(t))
	f := &fixture{store: s}

	var err error
	f.user, err = s.GetOrCreateUser(ctx, "user-1", "Alice")
	require.Nil(t, err)
	f.species, err = s.GetOrCreateSpecies(ctx, model.Species{TaxonID: 9606, ScientificName: "Homo sapiens"})
	require.Nil(t, err)
	f.assembly, err = s.GetOrCreateAssembly(ctx, model.Assembly{Name: "GRCh38", Accession: "GCA_000001405.15", UcscSynonym: "hg38"})
	require.Nil(t, err)

	f.hub = &model.Hub{Name: "hub1", URL: "https://example.org/hub.txt", OwnerID: f.user.ID}
	require.Nil(t, s.UpsertHub(ctx, f.hub))
	f.trackdb = &model.Trackdb{
		HubID:      f.hub.ID,
		AssemblyID: f.assembly.ID,
		SpeciesID:  f.species.ID,
		SourceURL:  "https://example.org/hg38/trackDb.txt",
		Created:    100,
		Updated:    100,
	}
	require.Nil(t, s.UpsertTrackdb(ctx, f.trackdb))
	return f
}

func (f *fixture) addTrack(t *testing.T, name, url string, parent *model.Track) *model.Track {
	track := &model.Track{TrackdbID: f.trackdb.ID, Name: name, BigDataURL: url}
	require.Nil(t, f.store.UpsertTrack(context.Background(), track))
	if parent != nil {
		require.Nil(t, f.store.SetTrackParent(context.Background(), track.ID, &parent.ID))
	}
	return track
}

func count(t *testing.T, s *Store, m interface{}) int64 {
	var n int64
	require.Nil(t, s.DB().Model(m).Count(&n).Error)
	return n
}

func TestGenomeAssemblyDump(t *testing.T) {
	ctx := context.Background()
	s := New(utils.CreateTestDB(t))

	require.Nil(t, s.ReplaceGenomeAssemblyDump(ctx, []model.GenomeAssemblyDump{
		{AssemblyName: "old", AccessionWithVersion: "GCA_1.1"},
	}))
	require.Nil(t, s.ReplaceGenomeAssemblyDump(ctx, []model.GenomeAssemblyDump{
		{AssemblyName: "GRCh38", AccessionWithVersion: "GCA_000001405.15", UcscSynonym: "hg38"},
		{AssemblyName: "GRCh37", AccessionWithVersion: "GCA_000001405.1"},
	}))

	n, err := s.CountGenomeAssemblyDump(ctx)
	require.Nil(t, err)
	assert.Equal(t, int64(2), n)

	dump, err := s.FindGenomeAssemblyDump(ctx, model.DumpColumnUcscSynonym, "hg38")
	require.Nil(t, err)
	require.NotNil(t, dump)
	assert.Equal(t, "GRCh38", dump.AssemblyName)

	dump, err = s.FindGenomeAssemblyDump(ctx, model.DumpColumnAssemblyName, "old")
	assert.Nil(t, err)
	assert.Nil(t, dump)

	_, err = s.FindGenomeAssemblyDump(ctx, "scientific_name; DROP TABLE x", "y")
	assert.NotNil(t, err)
}

func TestLoadLookupsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New(utils.CreateTestDB(t))

	first, err := s.LoadLookups(ctx)
	require.Nil(t, err)
	second, err := s.LoadLookups(ctx)
	require.Nil(t, err)
	assert.Equal(t, first, second)

	assert.Len(t, first.FileTypes, len(model.AllFileTypeName))
	assert.Len(t, first.DataTypes, 4)
	assert.Nil(t, first.FileTypeID("notAType"))
	require.NotNil(t, first.FileTypeID("bigBed"))
	assert.Equal(t, first.Visibilities["hide"], *first.VisibilityID("bogus"))
	assert.Equal(t, first.Visibilities["full"], *first.VisibilityID("full"))
	assert.Equal(t, int64(len(model.AllVisibilityName)), count(t, s, &model.Visibility{}))
}

func TestEnsureLookupsSeedsEachTable(t *testing.T) {
	ctx := context.Background()
	s := New(utils.CreateTestDB(t))

	require.Nil(t, s.Transaction(ctx, func(tx *Store) error {
		lookups, err := tx.LoadLookups(ctx)
		require.Nil(t, err)
		assert.NotNil(t, lookups.FileTypeID("bigBed"))
		assert.NotNil(t, lookups.VisibilityID("dense"))
		return nil
	}))

	assert.Equal(t, int64(len(model.AllDataTypeName)), count(t, s, &model.DataType{}))
	assert.Equal(t, int64(len(model.AllFileTypeName)), count(t, s, &model.FileType{}))
	assert.Equal(t, int64(len(model.AllVisibilityName)), count(t, s, &model.Visibility{}))

	var names []string
	require.Nil(t, s.DB().Model(&model.DataType{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"epigenomics", "genomics", "proteomics", "transcriptomics"}, names)
}

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.store.GetOrCreateUser(ctx, "user-1", "Alice B")
	require.Nil(t, err)
	assert.Equal(t, "Alice B", user.Name)
	_, err = f.store.GetOrCreateUser(ctx, "", "x")
	assert.NotNil(t, err)

	species, err := f.store.GetOrCreateSpecies(ctx, model.Species{TaxonID: 9606, ScientificName: "other"})
	require.Nil(t, err)
	assert.Equal(t, f.species.ID, species.ID)
	assert.Equal(t, "Homo sapiens", species.ScientificName)

	assembly, err := f.store.GetOrCreateAssembly(ctx, model.Assembly{Name: "GRCh38"})
	require.Nil(t, err)
	assert.Equal(t, f.assembly.ID, assembly.ID)
	assert.Equal(t, "hg38", assembly.UcscSynonym)

	assembly, err = f.store.GetOrCreateAssembly(ctx, model.Assembly{Name: "GRCh37", Accession: "GCA_000001405.1"})
	require.Nil(t, err)
	assert.Equal(t, "", assembly.UcscSynonym)
	assembly, err = f.store.GetOrCreateAssembly(ctx, model.Assembly{Name: "GRCh37", UcscSynonym: "hg19"})
	require.Nil(t, err)
	assert.Equal(t, "hg19", assembly.UcscSynonym)
	assert.Equal(t, int64(2), count(t, f.store, &model.Assembly{}))
}

func TestUpsertsUpdateInPlace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	hub := &model.Hub{Name: "renamed", URL: f.hub.URL, OwnerID: f.user.ID}
	require.Nil(t, f.store.UpsertHub(ctx, hub))
	assert.Equal(t, f.hub.ID, hub.ID)
	assert.Equal(t, int64(1), count(t, f.store, &model.Hub{}))

	found, err := f.store.FindHubByURL(ctx, f.hub.URL)
	require.Nil(t, err)
	assert.Equal(t, "renamed", found.Name)
	_, err = f.store.FindHubByURL(ctx, "https://nowhere/hub.txt")
	assert.True(t, errors.Is(err, ErrNotFound))

	trackdb := &model.Trackdb{
		HubID:      hub.ID,
		AssemblyID: f.assembly.ID,
		SpeciesID:  f.species.ID,
		SourceURL:  f.trackdb.SourceURL,
		Created:    999,
		Updated:    200,
	}
	require.Nil(t, f.store.UpsertTrackdb(ctx, trackdb))
	assert.Equal(t, f.trackdb.ID, trackdb.ID)
	assert.Equal(t, int64(100), trackdb.Created)

	stored, err := f.store.GetTrackdb(ctx, trackdb.ID)
	require.Nil(t, err)
	assert.Equal(t, int64(100), stored.Created)
	assert.Equal(t, int64(200), stored.Updated)
	assert.Equal(t, "renamed", stored.Hub.Name)
	assert.Equal(t, "Alice", stored.Hub.Owner.Name)
	assert.Equal(t, "GRCh38", stored.Assembly.Name)
	assert.Equal(t, 9606, stored.Species.TaxonID)

	a := f.addTrack(t, "A", "https://example.org/a.bb", nil)
	again := f.addTrack(t, "A", "https://example.org/a.bb", nil)
	assert.Equal(t, a.ID, again.ID)
	// A container shares the name but has no data file, so it is another track.
	container := f.addTrack(t, "A", "", nil)
	assert.NotEqual(t, a.ID, container.ID)
	assert.Equal(t, int64(2), count(t, f.store, &model.Track{}))
}

func TestTrackParentsAndStaleTracks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	parent := f.addTrack(t, "P", "", nil)
	child := f.addTrack(t, "C", "https://example.org/c.bb", parent)
	stale := f.addTrack(t, "old", "https://example.org/old.bb", parent)

	tracks, err := f.store.ListTracks(ctx, f.trackdb.ID)
	require.Nil(t, err)
	require.Len(t, tracks, 3)
	assert.Equal(t, parent.ID, *tracks[1].ParentID)

	removed, err := f.store.DeleteTracksExcept(ctx, f.trackdb.ID, []uint{parent.ID, child.ID})
	require.Nil(t, err)
	assert.Equal(t, int64(1), removed)

	tracks, err = f.store.ListTracks(ctx, f.trackdb.ID)
	require.Nil(t, err)
	require.Len(t, tracks, 2)
	for _, track := range tracks {
		assert.NotEqual(t, stale.ID, track.ID)
	}

	assert.True(t, errors.Is(f.store.SetTrackParent(ctx, 12345, &parent.ID), ErrNotFound))
}

func TestUpdateTrackdbStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	status := &model.TracksStatus{LastUpdate: 300, Message: model.StatusMessageOK}
	require.Nil(t, f.store.UpdateTrackdbStatus(ctx, f.trackdb.ID, status, 300))

	stored, err := f.store.GetTrackdb(ctx, f.trackdb.ID)
	require.Nil(t, err)
	got, err := stored.GetStatus()
	require.Nil(t, err)
	assert.Equal(t, status, got)
	assert.Equal(t, int64(300), stored.Updated)
	assert.Equal(t, int64(100), stored.Created)

	assert.True(t, errors.Is(f.store.UpdateTrackdbStatus(ctx, 4242, status, 1), ErrNotFound))
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.store.Transaction(ctx, func(tx *Store) error {
		hub := &model.Hub{Name: "hub2", URL: "https://example.org/hub2.txt", OwnerID: f.user.ID}
		require.Nil(t, tx.UpsertHub(ctx, hub))
		return errors.New("boom")
	})
	assert.NotNil(t, err)
	assert.Equal(t, int64(1), count(t, f.store, &model.Hub{}))
}

func TestDeleteTrackdbRemovesEmptyHub(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addTrack(t, "A", "https://example.org/a.bb", nil)

	other := &model.Trackdb{HubID: f.hub.ID, AssemblyID: f.assembly.ID, SpeciesID: f.species.ID, SourceURL: "https://example.org/hg19/trackDb.txt"}
	require.Nil(t, f.store.UpsertTrackdb(ctx, other))

	hubDeleted, err := f.store.DeleteTrackdb(ctx, f.trackdb.ID)
	require.Nil(t, err)
	assert.False(t, hubDeleted)
	assert.Equal(t, int64(0), count(t, f.store, &model.Track{}))

	hubDeleted, err = f.store.DeleteTrackdb(ctx, other.ID)
	require.Nil(t, err)
	assert.True(t, hubDeleted)
	assert.Equal(t, int64(0), count(t, f.store, &model.Hub{}))

	_, err = f.store.DeleteTrackdb(ctx, other.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteHubCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	parent := f.addTrack(t, "P", "", nil)
	f.addTrack(t, "C", "https://example.org/c.bb", parent)

	ids, err := f.store.DeleteHub(ctx, f.hub.ID)
	require.Nil(t, err)
	assert.Equal(t, []uint{f.trackdb.ID}, ids)
	assert.Equal(t, int64(0), count(t, f.store, &model.Hub{}))
	assert.Equal(t, int64(0), count(t, f.store, &model.Trackdb{}))
	assert.Equal(t, int64(0), count(t, f.store, &model.Track{}))
	// Reference rows outlive the hub.
	assert.Equal(t, int64(1), count(t, f.store, &model.Assembly{}))

	_, err = f.store.DeleteHub(ctx, f.hub.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteTrackdbsExcept(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dropped := &model.Trackdb{HubID: f.hub.ID, AssemblyID: f.assembly.ID, SpeciesID: f.species.ID, SourceURL: "https://example.org/hg19/trackDb.txt"}
	require.Nil(t, f.store.UpsertTrackdb(ctx, dropped))

	stale, err := f.store.DeleteTrackdbsExcept(ctx, f.hub.ID, []uint{f.trackdb.ID})
	require.Nil(t, err)
	assert.Equal(t, []uint{dropped.ID}, stale)
	ids, err := f.store.ListTrackdbIDs(ctx)
	require.Nil(t, err)
	assert.Equal(t, []uint{f.trackdb.ID}, ids)
}

func TestInfoQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addTrack(t, "A", "https://example.org/a.bb", nil)
	f.addTrack(t, "B", "https://example.org/b.bb", nil)

	summary, err := f.store.Summary(ctx)
	require.Nil(t, err)
	assert.Equal(t, &Summary{Hubs: 1, Species: 1, Assemblies: 1}, summary)

	names, err := f.store.ListSpeciesNames(ctx)
	require.Nil(t, err)
	assert.Equal(t, []string{"Homo sapiens"}, names)

	bySpecies, err := f.store.ListAssembliesBySpecies(ctx)
	require.Nil(t, err)
	require.Len(t, bySpecies["Homo sapiens"], 1)
	assert.Equal(t, "GRCh38", bySpecies["Homo sapiens"][0].Name)
	assert.Equal(t, "hg38", bySpecies["Homo sapiens"][0].UcscSynonym)

	for _, key := range []string{"GRCh38", "GCA_000001405.15"} {
		hubs, err := f.store.CountHubsPerAssembly(ctx, key)
		require.Nil(t, err)
		assert.Equal(t, int64(1), hubs, key)
		tracks, err := f.store.CountTracksPerAssembly(ctx, key)
		require.Nil(t, err)
		assert.Equal(t, int64(2), tracks, key)
	}
	hubs, err := f.store.CountHubsPerAssembly(ctx, "GRCh37")
	require.Nil(t, err)
	assert.Equal(t, int64(0), hubs)

	page, total, err := f.store.ListHubs(ctx, 10, 0)
	require.Nil(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	require.Len(t, page[0].Trackdbs, 1)
	assert.Equal(t, "GRCh38", page[0].Trackdbs[0].Assembly.Name)

	owned, err := f.store.ListHubsByOwner(ctx, f.user.ID)
	require.Nil(t, err)
	assert.Len(t, owned, 1)

	hub, err := f.store.GetHub(ctx, f.hub.ID)
	require.Nil(t, err)
	assert.Equal(t, "Alice", hub.Owner.Name)
	_, err = f.store.GetHub(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))
}
