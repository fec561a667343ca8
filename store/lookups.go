package store

import (
	"context"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// insertIgnore starts a new statement for every call, a shared chain would
// keep the table of its first Create.
func (s *Store) insertIgnore(ctx context.Context, rows interface{}) error {
	return s.with(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
}

// EnsureLookups seeds the data type, file type and visibility rows. Existing
// rows are left untouched so it is safe to call on every submission.
func (s *Store) EnsureLookups(ctx context.Context) error {
	dataTypes := make([]model.DataType, 0, len(model.AllDataTypeName))
	for _, name := range model.AllDataTypeName {
		dataTypes = append(dataTypes, model.DataType{Name: name.String()})
	}
	if err := s.insertIgnore(ctx, &dataTypes); err != nil {
		return errors.Wrap(err, "seed data types")
	}

	fileTypes := make([]model.FileType, 0, len(model.AllFileTypeName))
	for _, name := range model.AllFileTypeName {
		fileTypes = append(fileTypes, model.FileType{Name: name})
	}
	if err := s.insertIgnore(ctx, &fileTypes); err != nil {
		return errors.Wrap(err, "seed file types")
	}

	visibilities := make([]model.Visibility, 0, len(model.AllVisibilityName))
	for _, name := range model.AllVisibilityName {
		visibilities = append(visibilities, model.Visibility{Name: name})
	}
	if err := s.insertIgnore(ctx, &visibilities); err != nil {
		return errors.Wrap(err, "seed visibilities")
	}
	return nil
}

// LoadLookups seeds the enumerations when needed and returns their ids.
func (s *Store) LoadLookups(ctx context.Context) (*model.Lookups, error) {
	if err := s.EnsureLookups(ctx); err != nil {
		return nil, err
	}
	lookups := &model.Lookups{
		DataTypes:    map[string]uint{},
		FileTypes:    map[string]uint{},
		Visibilities: map[string]uint{},
	}

	var dataTypes []model.DataType
	if err := s.with(ctx).Find(&dataTypes).Error; err != nil {
		return nil, errors.Wrap(err, "load data types")
	}
	for _, d := range dataTypes {
		lookups.DataTypes[d.Name] = d.ID
	}

	var fileTypes []model.FileType
	if err := s.with(ctx).Find(&fileTypes).Error; err != nil {
		return nil, errors.Wrap(err, "load file types")
	}
	for _, f := range fileTypes {
		lookups.FileTypes[f.Name] = f.ID
	}

	var visibilities []model.Visibility
	if err := s.with(ctx).Find(&visibilities).Error; err != nil {
		return nil, errors.Wrap(err, "load visibilities")
	}
	for _, v := range visibilities {
		lookups.Visibilities[v.Name] = v.ID
	}
	return lookups, nil
}
