package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/mohammadDV/new-mvc-framework/database"
	"github.com/mohammadDV/new-mvc-framework/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is implemented by every model stored through Model.
type Record interface {
	PrimaryKey() uint
}

// Model is single-table CRUD over T that only ever writes the fillable columns.
type Model[T Record] struct {
	db       *gorm.DB
	fillable []string
	preloads []string
}

func NewModel[T Record](db *gorm.DB, fillable []string) *Model[T] {
	return &Model[T]{db: db, fillable: fillable}
}

// With returns a copy of the model whose reads preload the named relations.
func (m *Model[T]) With(relations ...string) *Model[T] {
	return &Model[T]{db: m.db, fillable: m.fillable, preloads: append(slices.Clone(m.preloads), relations...)}
}

func (m *Model[T]) query(ctx context.Context) *gorm.DB {
	tx := m.db.WithContext(ctx)
	for _, rel := range m.preloads {
		tx = tx.Preload(rel)
	}
	return tx
}

func (m *Model[T]) Fillable() []string {
	return slices.Clone(m.fillable)
}

// Find returns nil, nil when no row has id.
func (m *Model[T]) Find(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := m.query(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %d: %w", id, err)
	}
	return &entity, nil
}

// FindBy returns the first row whose column equals value, or nil, nil.
func (m *Model[T]) FindBy(ctx context.Context, column string, value any) (*T, error) {
	if err := m.checkColumn(column); err != nil {
		return nil, err
	}

	var entity T
	err := m.query(ctx).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find by %s: %w", column, err)
	}
	return &entity, nil
}

func (m *Model[T]) FindAllBy(ctx context.Context, column string, value any) ([]T, error) {
	if err := m.checkColumn(column); err != nil {
		return nil, err
	}

	var entities []T
	err := m.query(ctx).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		Order("id DESC").
		Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("find all by %s: %w", column, err)
	}
	return entities, nil
}

func (m *Model[T]) All(ctx context.Context) ([]T, error) {
	var entities []T
	if err := m.query(ctx).Order("id DESC").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("all: %w", err)
	}
	return entities, nil
}

func (m *Model[T]) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := m.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return total, nil
}

// Create inserts the fillable columns of entity and returns the new primary key.
func (m *Model[T]) Create(ctx context.Context, entity *T) (uint, error) {
	if err := m.db.WithContext(ctx).Select(m.fillable).Create(entity).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return 0, fmt.Errorf("create: %w", ErrDuplicateKey)
		}
		return 0, fmt.Errorf("create: %w", err)
	}
	return (*entity).PrimaryKey(), nil
}

// Update writes the fillable keys of attrs to row id. It reports whether a row was changed.
func (m *Model[T]) Update(ctx context.Context, id uint, attrs map[string]any) (bool, error) {
	filtered := m.onlyFillable(attrs)
	if len(filtered) == 0 {
		return false, ErrEmptyAttributes
	}

	res := m.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(filtered)
	if res.Error != nil {
		if database.IsUniqueViolation(res.Error) {
			return false, fmt.Errorf("update %d: %w", id, ErrDuplicateKey)
		}
		return false, fmt.Errorf("update %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete reports whether a row was removed.
func (m *Model[T]) Delete(ctx context.Context, id uint) (bool, error) {
	res := m.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return false, fmt.Errorf("delete %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Paginate returns one page of rows, newest first.
func (m *Model[T]) Paginate(ctx context.Context, perPage, page int) (*pagination.Paginator[T], error) {
	perPage, page = pagination.Normalize(perPage, page)

	total, err := m.Count(ctx)
	if err != nil {
		return nil, err
	}

	var items []T
	err = m.query(ctx).
		Order("id DESC").
		Limit(perPage).
		Offset(pagination.Offset(perPage, page)).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("paginate: %w", err)
	}

	return pagination.New(items, total, perPage, page), nil
}

func (m *Model[T]) onlyFillable(attrs map[string]any) map[string]any {
	filtered := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if slices.Contains(m.fillable, k) {
			filtered[k] = v
		}
	}
	return filtered
}

func (m *Model[T]) checkColumn(column string) error {
	if column == "id" || slices.Contains(m.fillable, column) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
}
