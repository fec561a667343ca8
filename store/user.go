package store

import (
	"context"

	"github.com/Luismorlan/trackhubs/model"
	"github.com/pkg/errors"
)

// GetOrCreateUser returns the user with id, creating it on first sight. A
// non-empty name refreshes the stored display name.
func (s *Store) GetOrCreateUser(ctx context.Context, id, name string) (*model.User, error) {
	if id == "" {
		return nil, errors.New("empty user id")
	}
	user := model.User{}
	if err := s.with(ctx).
		Where(model.User{ID: id}).
		Attrs(model.User{Name: name}).
		FirstOrCreate(&user).Error; err != nil {
		return nil, errors.Wrapf(err, "get or create user %s", id)
	}
	if name != "" && user.Name != name {
		user.Name = name
		if err := s.with(ctx).Model(&user).Update("name", name).Error; err != nil {
			return nil, errors.Wrapf(err, "rename user %s", id)
		}
	}
	return &user, nil
}
