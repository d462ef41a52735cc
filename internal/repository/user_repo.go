package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"userhub/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) ByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	return r.first(ctx, "nickname = ?", nickname)
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// Save persists the full entity, used after in-memory state transitions
// (login counters, lockout, verification).
func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Offset(skip).
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}

// Search applies the search/filter query maps and paginates the result.
// See search.go for the clause semantics.
func (r *UserRepository) Search(ctx context.Context, search, filter map[string]any, skip, limit int) ([]domain.User, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	tx = applySearchQuery(tx, search)
	tx = applyFilterQuery(tx, filter)

	var users []domain.User
	err := tx.Offset(skip).Limit(limit).Find(&users).Error
	return users, err
}
