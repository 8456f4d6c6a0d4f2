package repository

import (
	"context"
	"fmt"
	"regexp"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Lookup answers the existence checks behind the unique and exists validation rules.
type Lookup struct {
	db *gorm.DB
}

func NewLookup(db *gorm.DB) *Lookup {
	return &Lookup{db: db}
}

// Exists reports whether table has a row whose column equals value.
func (l *Lookup) Exists(ctx context.Context, table, column string, value any) (bool, error) {
	if !identifierPattern.MatchString(table) || !identifierPattern.MatchString(column) {
		return false, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
	}

	var n int64
	err := l.db.WithContext(ctx).
		Table(table).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("lookup %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}
