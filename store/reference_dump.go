package store

import (
	"context"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const dumpInsertBatchSize = 500

var dumpColumns = map[string]bool{
	model.DumpColumnAssemblyName:         true,
	model.DumpColumnUcscSynonym:          true,
	model.DumpColumnAccessionWithVersion: true,
}

// FindGenomeAssemblyDump returns the first row whose column equals value, or
// nil when nothing matches. Only the resolver columns are accepted.
func (s *Store) FindGenomeAssemblyDump(ctx context.Context, column, value string) (*model.GenomeAssemblyDump, error) {
	if !dumpColumns[column] {
		return nil, errors.Errorf("column %q is not a dump lookup column", column)
	}
	var rows []model.GenomeAssemblyDump
	err := s.with(ctx).
		Where(column+" = ?", value).
		Order("id").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find genome assembly dump by %s", column)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ReplaceGenomeAssemblyDump swaps the whole reference table in a single
// transaction.
func (s *Store) ReplaceGenomeAssemblyDump(ctx context.Context, rows []model.GenomeAssemblyDump) error {
	return s.with(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&model.GenomeAssemblyDump{}).Error; err != nil {
			return errors.Wrap(err, "clear genome assembly dump")
		}
		for i := range rows {
			rows[i].ID = 0
		}
		if err := tx.CreateInBatches(rows, dumpInsertBatchSize).Error; err != nil {
			return errors.Wrap(err, "insert genome assembly dump")
		}
		return nil
	})
}

func (s *Store) CountGenomeAssemblyDump(ctx context.Context) (int64, error) {
	var n int64
	err := s.with(ctx).Model(&model.GenomeAssemblyDump{}).Count(&n).Error
	return n, errors.Wrap(err, "count genome assembly dump")
}
