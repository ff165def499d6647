package store

import (
	"errors"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"

	"gorm.io/gorm"
)

// UserStore persists users.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore returns a user store over the given connection.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByID fetches a single user.
func (s *UserStore) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Dependency("find user", err)
	}
	return &user, nil
}

// FindByEmail fetches a user by email address.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Dependency("find user", err)
	}
	return &user, nil
}

// Create inserts a new user.
func (s *UserStore) Create(u *models.User) error {
	if err := s.db.Create(u).Error; err != nil {
		return apperr.Dependency("create user", err)
	}
	return nil
}

// List returns all users.
func (s *UserStore) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("name asc").Find(&users).Error; err != nil {
		return nil, apperr.Dependency("list users", err)
	}
	return users, nil
}

// Count returns the number of users.
func (s *UserStore) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, apperr.Dependency("count users", err)
	}
	return n, nil
}

// Missing returns the subset of ids that do not reference an existing user.
func (s *UserStore) Missing(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []string
	if err := s.db.Model(&models.User{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, apperr.Dependency("check users exist", err)
	}
	exists := make(map[string]struct{}, len(found))
	for _, id := range found {
		exists[id] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := exists[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
