package repositories

import (
	"errors"

	"github.com/teamforge-api/models"
	"gorm.io/gorm"
)

// UserRepository handles database operations for user accounts
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database
func (r *UserRepository) Create(user *models.User) error {
	err := r.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrEmailTaken
	}
	return err
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	result := r.db.First(&user, "email = ?", email)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return models.User{}, models.ErrUserNotFound
	}
	return user, result.Error
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(id string) (models.User, error) {
	var user models.User
	result := r.db.First(&user, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return models.User{}, models.ErrUserNotFound
	}
	return user, result.Error
}

// HistoryRepository handles database operations for audit history.
// Each entry is its own row, so an append is a single INSERT and
// concurrent appends to one user's history cannot lose entries.
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository instance
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append inserts a history entry
func (r *HistoryRepository) Append(entry *models.HistoryEntry) error {
	return r.db.Create(entry).Error
}

// FindByUser retrieves a user's history in append order
func (r *HistoryRepository) FindByUser(userID string) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	result := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&entries)
	return entries, result.Error
}
