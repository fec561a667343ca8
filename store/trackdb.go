package store

import (
	"context"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertTrackdb creates the trackdb or updates the row with the same source
// url in place. Created is kept from the stored row.
func (s *Store) UpsertTrackdb(ctx context.Context, trackdb *model.Trackdb) error {
	existing := []model.Trackdb{}
	if err := s.with(ctx).
		Where("source_url = ?", trackdb.SourceURL).
		Limit(1).
		Find(&existing).Error; err != nil {
		return errors.Wrapf(err, "find trackdb %s", trackdb.SourceURL)
	}
	if len(existing) == 0 {
		trackdb.ID = 0
		return errors.Wrapf(s.with(ctx).Omit(clause.Associations).Create(trackdb).Error, "create trackdb %s", trackdb.SourceURL)
	}
	trackdb.ID = existing[0].ID
	trackdb.Created = existing[0].Created
	return errors.Wrapf(s.with(ctx).Omit(clause.Associations).Save(trackdb).Error, "update trackdb %s", trackdb.SourceURL)
}

// FindTrackdbOwner returns the owner of the hub holding the trackdb at
// sourceURL, and ErrNotFound when no trackdb has that url.
func (s *Store) FindTrackdbOwner(ctx context.Context, sourceURL string) (string, error) {
	owners := []string{}
	err := s.with(ctx).
		Model(&model.Trackdb{}).
		Joins("JOIN hubs ON hubs.id = trackdbs.hub_id").
		Where("trackdbs.source_url = ?", sourceURL).
		Limit(1).
		Pluck("hubs.owner_id", &owners).Error
	if err != nil {
		return "", errors.Wrapf(err, "find owner of trackdb %s", sourceURL)
	}
	if len(owners) == 0 {
		return "", errors.Wrapf(ErrNotFound, "find owner of trackdb %s", sourceURL)
	}
	return owners[0], nil
}

// GetTrackdb loads a trackdb with everything the projection needs except its
// tracks.
func (s *Store) GetTrackdb(ctx context.Context, id uint) (*model.Trackdb, error) {
	trackdb := model.Trackdb{}
	err := s.with(ctx).
		Preload("Hub").
		Preload("Hub.Owner").
		Preload("Hub.DataType").
		Preload("Assembly").
		Preload("Species").
		First(&trackdb, id).Error
	if err != nil {
		return nil, notFound(err, "get trackdb")
	}
	return &trackdb, nil
}

func (s *Store) ListTrackdbIDs(ctx context.Context) ([]uint, error) {
	ids := []uint{}
	err := s.with(ctx).Model(&model.Trackdb{}).Order("id").Pluck("id", &ids).Error
	return ids, errors.Wrap(err, "list trackdb ids")
}

// UpdateTrackdbStatus only touches the status and updated columns.
func (s *Store) UpdateTrackdbStatus(ctx context.Context, id uint, status *model.TracksStatus, updated int64) error {
	holder := model.Trackdb{}
	if err := holder.SetStatus(status); err != nil {
		return errors.Wrap(err, "encode status")
	}
	res := s.with(ctx).Model(&model.Trackdb{ID: id}).Updates(map[string]interface{}{
		"status":  datatypes.JSON(holder.Status),
		"updated": updated,
	})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update status of trackdb %d", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "update status of trackdb %d", id)
	}
	return nil
}

// DeleteTrackdb removes a trackdb and its tracks, and the owning hub when it
// has no trackdb left. hubDeleted reports the latter.
func (s *Store) DeleteTrackdb(ctx context.Context, id uint) (hubDeleted bool, err error) {
	err = s.with(ctx).Transaction(func(tx *gorm.DB) error {
		trackdb := model.Trackdb{}
		if err := tx.First(&trackdb, id).Error; err != nil {
			return notFound(err, "delete trackdb")
		}
		if err := deleteTrackdbs(tx, []uint{id}); err != nil {
			return err
		}
		var left int64
		if err := tx.Model(&model.Trackdb{}).Where("hub_id = ?", trackdb.HubID).Count(&left).Error; err != nil {
			return errors.Wrap(err, "count remaining trackdbs")
		}
		if left > 0 {
			return nil
		}
		hubDeleted = true
		return errors.Wrap(tx.Delete(&model.Hub{}, trackdb.HubID).Error, "delete empty hub")
	})
	return hubDeleted, err
}

// DeleteTrackdbsExcept removes the trackdbs of a hub that are not in keep,
// such as genomes dropped from genomes.txt, and returns their ids.
func (s *Store) DeleteTrackdbsExcept(ctx context.Context, hubID uint, keep []uint) ([]uint, error) {
	stale := []uint{}
	q := s.with(ctx).Model(&model.Trackdb{}).Where("hub_id = ?", hubID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	if err := q.Order("id").Pluck("id", &stale).Error; err != nil {
		return nil, errors.Wrap(err, "list stale trackdbs")
	}
	if err := deleteTrackdbs(s.with(ctx), stale); err != nil {
		return nil, err
	}
	return stale, nil
}

// UpdateTrackdbContent writes the configuration tree and data summary of a
// stored trackdb.
func (s *Store) UpdateTrackdbContent(ctx context.Context, trackdb *model.Trackdb) error {
	err := s.with(ctx).
		Model(&model.Trackdb{ID: trackdb.ID}).
		Select("configuration", "data").
		Updates(&model.Trackdb{Configuration: trackdb.Configuration, Data: trackdb.Data}).Error
	return errors.Wrapf(err, "update content of trackdb %d", trackdb.ID)
}
