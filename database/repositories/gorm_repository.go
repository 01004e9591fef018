// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package repositories

import (
	"context"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"time"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type guidModel interface {
	GetGUID() string
}

type createdByModel interface {
	GetCreatedByID() *uint
}

// GormRepository wraps create, update and delete with the audit log and keeps who touched audited fields.
type GormRepository[T models.Entity] struct {
	db *gorm.DB
}

func newGormRepository[T models.Entity](db *gorm.DB) *GormRepository[T] {
	return &GormRepository[T]{
		db: db,
	}
}

func (g *GormRepository[T]) GetDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return g.db
}

// Transaction runs f in a transaction and rolls back when it returns an error.
func (g *GormRepository[T]) Transaction(f func(tx *gorm.DB) error) error {
	tx := g.db.Begin()
	if err := f(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (g *GormRepository[T]) Read(ctx context.Context, id uint) (T, error) {
	var t T
	err := g.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return t, err
}

func (g *GormRepository[T]) ReadByGUID(ctx context.Context, guid string) (T, error) {
	var t T
	err := g.db.WithContext(ctx).First(&t, "guid = ?", guid).Error
	return t, err
}

func (g *GormRepository[T]) ListByIDs(ctx context.Context, ids []uint) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	var ts []T
	err := g.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&ts).Error
	return ts, err
}

func (g *GormRepository[T]) ListByGUIDs(ctx context.Context, guids []string) ([]T, error) {
	if len(guids) == 0 {
		return []T{}, nil
	}
	var ts []T
	err := g.db.WithContext(ctx).Where("guid IN ?", guids).Order("id").Find(&ts).Error
	return ts, err
}

// Create stores the entity with the user as creator. The final guid is assigned by the AfterCreate hook
// once the primary key is known.
func (g *GormRepository[T]) Create(ctx context.Context, tx *gorm.DB, user models.User, t *T) error {
	if setter, ok := any(t).(interface{ SetCreatedByID(uint) }); ok && user.ID != 0 {
		setter.SetCreatedByID(user.ID)
	}
	if err := g.GetDB(tx).WithContext(ctx).Create(t).Error; err != nil {
		return errors.Wrapf(err, "could not create %s", entityName[T]())
	}
	slog.Info("create "+entityName[T](), "entity", entityName[T](), "guid", guidOf(t), "user", user.Username)
	return nil
}

// Update applies the column updates and logs the previous and new values.
// Updating an audited field also records when and by whom it was changed.
func (g *GormRepository[T]) Update(ctx context.Context, tx *gorm.DB, user models.User, t *T, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates = maps.Clone(updates)
	fields := slices.Sorted(maps.Keys(updates))

	before, err := g.columnValues(ctx, tx, t, fields)
	if err != nil {
		return err
	}

	now := time.Now()
	if audited, ok := any(t).(models.Audited); ok {
		for _, f := range audited.AuditFields() {
			if _, changed := updates[f]; changed {
				updates[f+"_last_modified_date"] = now
				updates[f+"_last_modified_by_id"] = user.ID
			}
		}
	}
	if _, ok := any(t).(createdByModel); ok {
		updates["last_modified_date"] = now
	}

	if err := g.GetDB(tx).WithContext(ctx).Model(t).Updates(updates).Error; err != nil {
		return errors.Wrapf(err, "could not update %s", entityName[T]())
	}

	after := make(map[string]any, len(fields))
	for _, f := range fields {
		after[f] = updates[f]
	}
	slog.Info("update "+entityName[T](),
		"entity", entityName[T](), "guid", guidOf(t), "user", user.Username, "fields", fields, "before", before, "after", after,
	)
	return nil
}

// DeleteModel removes the entity. Only its creator may delete it unless userCanDelete is set.
func (g *GormRepository[T]) DeleteModel(ctx context.Context, user models.User, t *T, userCanDelete bool) error {
	if !userCanDelete && !isCreator(t, user) {
		return errors.Wrapf(shared.ErrPermissionDenied, "user does not have permission to delete this %s", entityName[T]())
	}
	if err := g.db.WithContext(ctx).Delete(t).Error; err != nil {
		return errors.Wrapf(err, "could not delete %s", entityName[T]())
	}
	slog.Info("delete "+entityName[T](), "entity", entityName[T](), "guid", guidOf(t), "user", user.Username)
	return nil
}

func (g *GormRepository[T]) columnValues(ctx context.Context, tx *gorm.DB, t *T, columns []string) (map[string]any, error) {
	before := make(map[string]any, len(columns))
	stmt := &gorm.Statement{DB: g.GetDB(tx)}
	if err := stmt.Parse(t); err != nil {
		return nil, errors.Wrapf(err, "could not parse %s", entityName[T]())
	}
	value := reflect.ValueOf(t).Elem()
	for _, c := range columns {
		field := stmt.Schema.LookUpField(c)
		if field == nil {
			return nil, errors.Errorf("%s has no column %s", entityName[T](), c)
		}
		v, _ := field.ValueOf(ctx, value)
		before[c] = v
	}
	return before, nil
}

func isCreator(t any, user models.User) bool {
	m, ok := t.(createdByModel)
	if !ok {
		return false
	}
	id := m.GetCreatedByID()
	return id != nil && user.ID != 0 && *id == user.ID
}

func entityName[T any]() string {
	var t T
	return reflect.TypeOf(t).Name()
}

func guidOf(t any) string {
	if m, ok := t.(guidModel); ok {
		return m.GetGUID()
	}
	return ""
}
