package store

import (
	"context"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/pkg/errors"
)

// GetOrCreateSpecies is keyed by taxon id.
func (s *Store) GetOrCreateSpecies(ctx context.Context, species model.Species) (*model.Species, error) {
	out := model.Species{}
	err := s.with(ctx).
		Where("taxon_id = ?", species.TaxonID).
		Attrs(model.Species{TaxonID: species.TaxonID, ScientificName: species.ScientificName, CommonName: species.CommonName}).
		FirstOrCreate(&out).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get or create species %d", species.TaxonID)
	}
	return &out, nil
}

// GetOrCreateAssembly is keyed by assembly name. A synonym learned later is
// added to an existing row.
func (s *Store) GetOrCreateAssembly(ctx context.Context, assembly model.Assembly) (*model.Assembly, error) {
	out := model.Assembly{}
	err := s.with(ctx).
		Where("name = ?", assembly.Name).
		Attrs(model.Assembly{
			Name:        assembly.Name,
			Accession:   assembly.Accession,
			LongName:    assembly.LongName,
			UcscSynonym: assembly.UcscSynonym,
		}).
		FirstOrCreate(&out).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get or create assembly %s", assembly.Name)
	}
	if out.UcscSynonym == "" && assembly.UcscSynonym != "" {
		out.UcscSynonym = assembly.UcscSynonym
		if err := s.with(ctx).Model(&out).Update("ucsc_synonym", out.UcscSynonym).Error; err != nil {
			return nil, errors.Wrapf(err, "set synonym of assembly %s", assembly.Name)
		}
	}
	return &out, nil
}
