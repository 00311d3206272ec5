// Package users provides database operations for the user directory.
//
// Lookups and updates are expressed as attribute maps keyed by column name.
// Only the columns in entities.UserAttributes are accepted; any other key is
// rejected with ErrInvalidAttribute before the database is touched.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.FindOne(ctx, map[string]any{"email": email})
//	err = repo.Update(ctx, user.ID, map[string]any{"session_id": nil})
package users

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"gorm.io/gorm"

	"github.com/mrlokans/authcore/internal/entities"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrAlreadyExists    = errors.New("user already exists")
	ErrInvalidAttribute = errors.New("invalid user attribute")
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// validateAttributes rejects empty maps and keys that are not user columns.
func validateAttributes(attrs map[string]any) error {
	if len(attrs) == 0 {
		return fmt.Errorf("%w: no attributes given", ErrInvalidAttribute)
	}
	var invalid []string
	for key := range attrs {
		if !entities.UserAttributes[key] {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return fmt.Errorf("%w: %v", ErrInvalidAttribute, invalid)
	}
	return nil
}

// FindOne returns the first user matching every attribute in filter.
// A nil value matches NULL.
func (r *Repository) FindOne(ctx context.Context, filter map[string]any) (*entities.User, error) {
	if err := validateAttributes(filter); err != nil {
		return nil, err
	}

	var user entities.User
	err := r.db.WithContext(ctx).Where(filter).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, oops.Code("USERS_FIND_FAILED").With("attributes", attributeNames(filter)).Wrap(err)
	}
	return &user, nil
}

// Insert creates a user with a fresh ULID identity key.
func (r *Repository) Insert(ctx context.Context, email string, hashedPassword []byte) (*entities.User, error) {
	user := &entities.User{
		ID:             ulid.Make().String(),
		Email:          email,
		HashedPassword: hashedPassword,
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, oops.Code("USERS_INSERT_FAILED").Wrap(err)
	}

	return user, nil
}

// Update applies diff to the user with the given id in a single statement.
func (r *Repository) Update(ctx context.Context, id string, diff map[string]any) error {
	if err := validateAttributes(diff); err != nil {
		return err
	}
	if _, ok := diff["id"]; ok {
		return fmt.Errorf("%w: id is immutable", ErrInvalidAttribute)
	}

	result := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(diff)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return oops.Code("USERS_UPDATE_FAILED").With("user_id", id).With("attributes", attributeNames(diff)).Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every user ordered by id.
func (r *Repository) All(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, oops.Code("USERS_LIST_FAILED").Wrap(err)
	}
	return users, nil
}

// Count returns the number of registered users.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error
	return count, err
}

// attributeNames lists the keys only; values may be secrets.
func attributeNames(attrs map[string]any) []string {
	names := make([]string, 0, len(attrs))
	for key := range attrs {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}
