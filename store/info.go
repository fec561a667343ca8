package store

import (
	"context"
	"strings"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Summary holds the counters of the stats endpoint.
type Summary struct {
	Hubs       int64
	Species    int64
	Assemblies int64
}

func (s *Store) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	for _, c := range []struct {
		table interface{}
		out   *int64
	}{
		{&model.Hub{}, &summary.Hubs},
		{&model.Species{}, &summary.Species},
		{&model.Assembly{}, &summary.Assemblies},
	} {
		if err := s.with(ctx).Model(c.table).Count(c.out).Error; err != nil {
			return nil, errors.Wrap(err, "count summary")
		}
	}
	return summary, nil
}

// ListSpeciesNames returns the scientific names of every stored species.
func (s *Store) ListSpeciesNames(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.with(ctx).Model(&model.Species{}).Order("scientific_name").Pluck("scientific_name", &names).Error
	return names, errors.Wrap(err, "list species")
}

// ListAssembliesBySpecies groups the assemblies used by trackdbs under their
// species scientific name, in assembly id order.
func (s *Store) ListAssembliesBySpecies(ctx context.Context) (map[string][]model.Assembly, error) {
	rows := []struct {
		ScientificName string
		model.Assembly
	}{}
	err := s.with(ctx).
		Table("trackdbs").
		Select("DISTINCT species.scientific_name AS scientific_name, assemblies.id, assemblies.accession, assemblies.name, assemblies.long_name, assemblies.ucsc_synonym").
		Joins("JOIN species ON species.id = trackdbs.species_id").
		Joins("JOIN assemblies ON assemblies.id = trackdbs.assembly_id").
		Order("species.scientific_name, assemblies.id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list assemblies by species")
	}
	out := map[string][]model.Assembly{}
	for _, r := range rows {
		out[r.ScientificName] = append(out[r.ScientificName], r.Assembly)
	}
	return out, nil
}

// assemblyFilter matches an accession when key starts with GCA, an assembly
// name otherwise.
func assemblyFilter(db *gorm.DB, key string) *gorm.DB {
	if strings.HasPrefix(key, "GCA") {
		return db.Where("assemblies.accession = ?", key)
	}
	return db.Where("assemblies.name = ?", key)
}

func (s *Store) CountHubsPerAssembly(ctx context.Context, assembly string) (int64, error) {
	var n int64
	q := s.with(ctx).
		Model(&model.Trackdb{}).
		Joins("JOIN assemblies ON assemblies.id = trackdbs.assembly_id").
		Distinct("trackdbs.hub_id")
	err := assemblyFilter(q, assembly).Count(&n).Error
	return n, errors.Wrap(err, "count hubs per assembly")
}

func (s *Store) CountTracksPerAssembly(ctx context.Context, assembly string) (int64, error) {
	var n int64
	q := s.with(ctx).
		Model(&model.Track{}).
		Joins("JOIN trackdbs ON trackdbs.id = tracks.trackdb_id").
		Joins("JOIN assemblies ON assemblies.id = trackdbs.assembly_id")
	err := assemblyFilter(q, assembly).Count(&n).Error
	return n, errors.Wrap(err, "count tracks per assembly")
}
