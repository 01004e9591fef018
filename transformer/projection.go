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

package transformer

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/utils"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm/schema"
)

// NestedField pulls a value through a chain of relations, e.g. {"family", "project", "guid"}.
// A non empty Value is used as is and the chain is never traversed.
type NestedField struct {
	Fields []string
	Key    string
	Value  string
}

func (n NestedField) key() string {
	if n.Key != "" {
		return n.Key
	}
	return toCamelCase(strings.Join(n.Fields, "_"))
}

// Enricher post-processes a projected record of one entity type.
type Enricher[T any] interface {
	// Relations lists gorm preload paths Enrich reads from.
	Relations() []string
	Enrich(result dtos.JSON, entity *T)
}

type Options[T any] struct {
	// User decides whether internal fields are included.
	User             *models.User
	NestedFields     []NestedField
	AdditionalFields []string
	// GUIDKey replaces the default "<type>Guid" key.
	GUIDKey  string
	Enricher Enricher[T]
}

// ModelsToJSON projects the declared json fields of every entity into a camelCase record.
// All relations read by fields, nested fields and the enricher are preloaded in bulk first.
func ModelsToJSON[T models.Entity](ctx context.Context, preloader shared.Preloader, entities []T, opts Options[T]) ([]dtos.JSON, error) {
	if len(entities) == 0 {
		return []dtos.JSON{}, nil
	}

	var zero T
	entityType := reflect.TypeOf(zero)

	fields := slices.Clone(zero.JSONFields())
	if opts.User != nil && opts.User.IsStaff {
		if internal, ok := any(zero).(models.InternalFieldsProvider); ok {
			fields = append(fields, internal.InternalJSONFields()...)
		}
	}
	fields = append(fields, opts.AdditionalFields...)

	relations, err := collectRelations(entityType, fields, opts)
	if err != nil {
		return nil, err
	}

	entities, err = prefetch(ctx, preloader, entities, relations)
	if err != nil {
		return nil, err
	}

	guidKey := opts.GUIDKey
	if guidKey == "" {
		guidKey = lowerFirst(entityType.Name()) + "Guid"
	}

	results := make([]dtos.JSON, 0, len(entities))
	for i := range entities {
		entity := &entities[i]
		value := reflect.ValueOf(entity).Elem()

		result := make(dtos.JSON, len(fields)+len(opts.NestedFields)+2)
		for _, name := range fields {
			v, err := fieldValue(ctx, value, name)
			if err != nil {
				return nil, err
			}
			result[toCamelCase(name)] = v
		}

		for _, nested := range opts.NestedFields {
			if nested.Value != "" {
				result[nested.key()] = nested.Value
				continue
			}
			v, err := resolveNested(ctx, value, nested.Fields)
			if err != nil {
				return nil, err
			}
			result[nested.key()] = v
		}

		if guid, ok := result["guid"]; ok && guid != "" && guid != nil {
			delete(result, "guid")
			result[guidKey] = guid
		}
		if createdBy, ok := result["createdBy"]; ok && createdBy != nil {
			result["createdBy"] = userDisplayName(createdBy)
		}

		if opts.Enricher != nil {
			opts.Enricher.Enrich(result, entity)
		}
		results = append(results, result)
	}
	return results, nil
}

func collectRelations[T any](entityType reflect.Type, fields []string, opts Options[T]) ([]string, error) {
	relations := make([]string, 0)
	index, err := fieldIndexOf(entityType)
	if err != nil {
		return nil, err
	}
	for _, name := range fields {
		field, ok := index.fields[name]
		if !ok {
			return nil, fmt.Errorf("%s has no json field %s", entityType.Name(), name)
		}
		if index.relations[field.Name] {
			relations = append(relations, field.Name)
		}
	}

	for _, nested := range opts.NestedFields {
		if nested.Value != "" || len(nested.Fields) < 2 {
			continue
		}
		path, err := relationPath(entityType, nested.Fields[:len(nested.Fields)-1])
		if err != nil {
			return nil, err
		}
		relations = append(relations, path)
	}

	if opts.Enricher != nil {
		relations = append(relations, opts.Enricher.Relations()...)
	}
	return utils.Uniq(relations), nil
}

func prefetch[T models.Entity](ctx context.Context, preloader shared.Preloader, entities []T, relations []string) ([]T, error) {
	if preloader == nil || len(relations) == 0 {
		return entities, nil
	}

	ids := make([]uint, 0, len(entities))
	for _, e := range entities {
		if e.GetID() != 0 {
			ids = append(ids, e.GetID())
		}
	}
	if len(ids) == 0 {
		return entities, nil
	}

	var loaded []T
	if err := preloader.Preload(ctx, &loaded, utils.Uniq(ids), relations...); err != nil {
		return nil, errors.Wrap(err, "could not prefetch relations")
	}

	byID := make(map[uint]T, len(loaded))
	for _, l := range loaded {
		byID[l.GetID()] = l
	}

	res := make([]T, len(entities))
	for i, e := range entities {
		if l, ok := byID[e.GetID()]; ok {
			res[i] = l
		} else {
			res[i] = e
		}
	}
	return res, nil
}

type fieldIndex struct {
	fields    map[string]*schema.Field
	relations map[string]bool
}

var (
	namingStrategy = schema.NamingStrategy{}
	schemaCache    = &sync.Map{}
	fieldIndexes   = &sync.Map{}
)

// fieldIndexOf maps column names ("family_id") and snake cased relation names
// ("assigned_analyst") to the gorm field of the struct type.
func fieldIndexOf(t reflect.Type) (fieldIndex, error) {
	if cached, ok := fieldIndexes.Load(t); ok {
		return cached.(fieldIndex), nil
	}

	s, err := schema.Parse(reflect.New(t).Interface(), schemaCache, namingStrategy)
	if err != nil {
		return fieldIndex{}, errors.Wrapf(err, "could not parse schema of %s", t.Name())
	}

	index := fieldIndex{
		fields:    make(map[string]*schema.Field, len(s.Fields)),
		relations: make(map[string]bool, len(s.Relationships.Relations)),
	}
	for _, f := range s.Fields {
		if f.DBName != "" {
			index.fields[f.DBName] = f
		}
	}
	for _, f := range s.Fields {
		name := namingStrategy.ColumnName("", f.Name)
		if _, ok := index.fields[name]; !ok {
			index.fields[name] = f
		}
	}
	for name := range s.Relationships.Relations {
		index.relations[name] = true
	}

	fieldIndexes.Store(t, index)
	return index, nil
}

func lookupField(t reflect.Type, name string) (*schema.Field, bool, error) {
	index, err := fieldIndexOf(t)
	if err != nil {
		return nil, false, err
	}
	field, ok := index.fields[name]
	if !ok {
		return nil, false, fmt.Errorf("%s has no field %s", t.Name(), name)
	}
	return field, index.relations[field.Name], nil
}

func fieldValue(ctx context.Context, value reflect.Value, name string) (any, error) {
	field, _, err := lookupField(value.Type(), name)
	if err != nil {
		return nil, err
	}
	v, _ := field.ValueOf(ctx, value)
	return normalizeValue(v), nil
}

// resolveNested walks the relation chain. A missing hop resolves to nil.
func resolveNested(ctx context.Context, value reflect.Value, path []string) (any, error) {
	current := value
	for i, name := range path {
		v, err := fieldValue(ctx, current, name)
		if err != nil {
			return nil, err
		}
		if i == len(path)-1 || v == nil {
			return v, nil
		}
		current = reflect.Indirect(reflect.ValueOf(v))
		if current.Kind() != reflect.Struct {
			return nil, fmt.Errorf("%s is not a relation", name)
		}
	}
	return nil, nil
}

// relationPath converts snake cased hops into a gorm preload path ("Family.Project").
func relationPath(t reflect.Type, hops []string) (string, error) {
	names := make([]string, 0, len(hops))
	current := t
	for _, hop := range hops {
		field, isRelation, err := lookupField(current, hop)
		if err != nil {
			return "", err
		}
		if !isRelation {
			return "", fmt.Errorf("%s.%s is not a relation", current.Name(), hop)
		}
		names = append(names, field.Name)
		current = field.FieldType
		for current.Kind() == reflect.Pointer || current.Kind() == reflect.Slice {
			current = current.Elem()
		}
	}
	return strings.Join(names, "."), nil
}

var timeType = reflect.TypeOf(time.Time{})

// normalizeValue turns nil pointers into nil and dereferences pointers to scalars.
// Pointers to related structs are kept so enrichers can read them.
func normalizeValue(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return v
	}
	if rv.IsNil() {
		return nil
	}
	if rv.Elem().Kind() != reflect.Struct || rv.Elem().Type() == timeType {
		return rv.Elem().Interface()
	}
	return v
}

func userDisplayName(v any) any {
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil
	}
	return user.DisplayName()
}

// toCamelCase keeps the first word and title cases the following ones: "p_adjust" -> "pAdjust".
func toCamelCase(s string) string {
	parts := strings.Split(s, "_")
	caser := cases.Title(language.Und)
	for i := 1; i < len(parts); i++ {
		parts[i] = caser.String(parts[i])
	}
	return strings.Join(parts, "")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
