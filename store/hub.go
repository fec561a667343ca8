package store

import (
	"context"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindHubByURL returns the oldest hub registered under url, whoever owns it.
func (s *Store) FindHubByURL(ctx context.Context, url string) (*model.Hub, error) {
	hub := model.Hub{}
	err := s.with(ctx).Where("url = ?", url).Order("id").First(&hub).Error
	if err != nil {
		return nil, notFound(err, "find hub "+url)
	}
	return &hub, nil
}

// UpsertHub creates the hub or updates the row with the same url and owner in
// place. hub.ID and hub.CreatedAt are filled from the stored row.
func (s *Store) UpsertHub(ctx context.Context, hub *model.Hub) error {
	existing := []model.Hub{}
	if err := s.with(ctx).
		Where("url = ? AND owner_id = ?", hub.URL, hub.OwnerID).
		Limit(1).
		Find(&existing).Error; err != nil {
		return errors.Wrapf(err, "find hub %s", hub.URL)
	}
	if len(existing) == 0 {
		hub.ID = 0
		return errors.Wrapf(s.with(ctx).Omit(clause.Associations).Create(hub).Error, "create hub %s", hub.URL)
	}
	hub.ID = existing[0].ID
	hub.CreatedAt = existing[0].CreatedAt
	return errors.Wrapf(s.with(ctx).Omit(clause.Associations).Save(hub).Error, "update hub %s", hub.URL)
}

// GetHub loads a hub with its owner, data type and trackdbs.
func (s *Store) GetHub(ctx context.Context, id uint) (*model.Hub, error) {
	hub := model.Hub{}
	err := s.with(ctx).
		Preload("Owner").
		Preload("DataType").
		Preload("Trackdbs", func(db *gorm.DB) *gorm.DB { return db.Order("trackdbs.id") }).
		Preload("Trackdbs.Assembly").
		Preload("Trackdbs.Species").
		First(&hub, id).Error
	if err != nil {
		return nil, notFound(err, "get hub")
	}
	return &hub, nil
}

// ListHubsByOwner returns the hubs of one user, oldest first.
func (s *Store) ListHubsByOwner(ctx context.Context, ownerID string) ([]model.Hub, error) {
	hubs := []model.Hub{}
	err := s.with(ctx).
		Preload("DataType").
		Preload("Trackdbs", func(db *gorm.DB) *gorm.DB { return db.Order("trackdbs.id") }).
		Preload("Trackdbs.Assembly").
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&hubs).Error
	return hubs, errors.Wrap(err, "list hubs by owner")
}

// ListHubs returns one page of every hub along with the total count.
func (s *Store) ListHubs(ctx context.Context, limit, offset int) ([]model.Hub, int64, error) {
	var total int64
	if err := s.with(ctx).Model(&model.Hub{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count hubs")
	}
	hubs := []model.Hub{}
	err := s.with(ctx).
		Preload("Trackdbs", func(db *gorm.DB) *gorm.DB { return db.Order("trackdbs.id") }).
		Preload("Trackdbs.Assembly").
		Preload("Trackdbs.Species").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&hubs).Error
	return hubs, total, errors.Wrap(err, "list hubs")
}

// DeleteHub removes a hub with all its trackdbs and tracks. It returns the
// ids of the removed trackdbs.
func (s *Store) DeleteHub(ctx context.Context, id uint) ([]uint, error) {
	var trackdbIDs []uint
	err := s.with(ctx).Transaction(func(tx *gorm.DB) error {
		hub := model.Hub{}
		if err := tx.First(&hub, id).Error; err != nil {
			return notFound(err, "delete hub")
		}
		if err := tx.Model(&model.Trackdb{}).Where("hub_id = ?", id).Order("id").Pluck("id", &trackdbIDs).Error; err != nil {
			return errors.Wrap(err, "list trackdbs of hub")
		}
		if err := deleteTrackdbs(tx, trackdbIDs); err != nil {
			return err
		}
		return errors.Wrap(tx.Delete(&model.Hub{}, id).Error, "delete hub")
	})
	if err != nil {
		return nil, err
	}
	return trackdbIDs, nil
}

func deleteTrackdbs(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	// Unlink parents first, the self reference must stay valid in any delete order.
	if err := tx.Model(&model.Track{}).Where("trackdb_id IN ?", ids).Update("parent_id", nil).Error; err != nil {
		return errors.Wrap(err, "unlink tracks")
	}
	if err := tx.Where("trackdb_id IN ?", ids).Delete(&model.Track{}).Error; err != nil {
		return errors.Wrap(err, "delete tracks")
	}
	return errors.Wrap(tx.Delete(&model.Trackdb{}, ids).Error, "delete trackdbs")
}
