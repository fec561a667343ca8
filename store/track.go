package store

import (
	"context"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertTrack creates the track or updates the row with the same trackdb,
// name and big data url in place.
func (s *Store) UpsertTrack(ctx context.Context, track *model.Track) error {
	existing := []model.Track{}
	if err := s.with(ctx).
		Where("trackdb_id = ? AND name = ? AND big_data_url = ?", track.TrackdbID, track.Name, track.BigDataURL).
		Limit(1).
		Find(&existing).Error; err != nil {
		return errors.Wrapf(err, "find track %s", track.Name)
	}
	if len(existing) == 0 {
		track.ID = 0
		return errors.Wrapf(s.with(ctx).Omit(clause.Associations).Create(track).Error, "create track %s", track.Name)
	}
	track.ID = existing[0].ID
	return errors.Wrapf(s.with(ctx).Omit(clause.Associations).Save(track).Error, "update track %s", track.Name)
}

func (s *Store) SetTrackParent(ctx context.Context, trackID uint, parentID *uint) error {
	res := s.with(ctx).Model(&model.Track{ID: trackID}).Update("parent_id", parentID)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "set parent of track %d", trackID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "set parent of track %d", trackID)
	}
	return nil
}

// ListTracks returns the tracks of a trackdb in insertion order with their
// file type and visibility.
func (s *Store) ListTracks(ctx context.Context, trackdbID uint) ([]model.Track, error) {
	tracks := []model.Track{}
	err := s.with(ctx).
		Preload("FileType").
		Preload("Visibility").
		Where("trackdb_id = ?", trackdbID).
		Order("id").
		Find(&tracks).Error
	return tracks, errors.Wrapf(err, "list tracks of trackdb %d", trackdbID)
}

// DeleteTracksExcept removes the tracks of a trackdb that are not in keep. It
// cleans up tracks dropped from trackDb.txt on re-submission.
func (s *Store) DeleteTracksExcept(ctx context.Context, trackdbID uint, keep []uint) (int64, error) {
	var removed int64
	err := s.with(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&model.Track{}).Where("trackdb_id = ?", trackdbID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Update("parent_id", nil).Error; err != nil {
			return errors.Wrap(err, "unlink stale tracks")
		}
		q := tx.Where("trackdb_id = ?", trackdbID)
		if len(keep) > 0 {
			q = q.Where("id NOT IN ?", keep)
		}
		res := q.Delete(&model.Track{})
		removed = res.RowsAffected
		return errors.Wrap(res.Error, "delete stale tracks")
	})
	return removed, err
}
