package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/pkg/pg"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	*pg.DB
}

func NewUserRepository(db *pg.DB) *UserRepository {
	return &UserRepository{
		db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return r.Write(ctx).Create(toUserEntity(user)).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var entity UserEntity
	err := r.Read(ctx).
		Where("id = ?", id).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return toUserModel(&entity), nil
}

// Search returns users ordered by email. An empty query lists the first page.
func (r *UserRepository) Search(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = model.DefaultUserSearchLimit
	}

	q := r.Read(ctx).Model(&UserEntity{}).Order("email ASC").Limit(limit)
	if term := strings.TrimSpace(filter.Query); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		q = q.Where(
			"LOWER(email) LIKE ? ESCAPE '\\' OR LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(label, '')) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}

	var entities []*UserEntity
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	return toUserModels(entities), nil
}

// AddPoints applies delta to the cached balance in a single statement and
// returns the balance after the update.
func (r *UserRepository) AddPoints(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	result := r.Write(ctx).
		Model(&UserEntity{}).
		Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", delta))

	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}

	// read from the primary, a replica may not have the increment yet
	var entity UserEntity
	err := r.Write(ctx).
		Select("points").
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	return entity.Points, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
