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

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const MaxGUIDSize = 30

// Entity is implemented by every model the transformer can project.
type Entity interface {
	GetID() uint
	JSONFields() []string
}

// InternalFieldsProvider exposes fields only staff users may see.
type InternalFieldsProvider interface {
	InternalJSONFields() []string
}

// Audited models log before/after values and track who last touched AuditFields.
type Audited interface {
	AuditFields() []string
}

type Model struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	GUID             string     `json:"guid" gorm:"type:varchar(30);uniqueIndex;not null"`
	CreatedDate      time.Time  `json:"createdDate" gorm:"index"`
	CreatedByID      *uint      `json:"createdById"`
	LastModifiedDate *time.Time `json:"lastModifiedDate" gorm:"index"`
}

func (m Model) GetID() uint {
	return m.ID
}

func (m Model) GetGUID() string {
	return m.GUID
}

func (m Model) GetCreatedByID() *uint {
	return m.CreatedByID
}

func (m *Model) SetCreatedByID(id uint) {
	m.CreatedByID = &id
}

// BeforeCreate stores a random placeholder guid. The real one depends on the
// database id and gets assigned in the AfterCreate hook of every model.
func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.GUID == "" {
		m.GUID = temporaryGUID()
	}
	if m.CreatedDate.IsZero() {
		m.CreatedDate = time.Now()
	}
	return nil
}

func (m *Model) assignGUID(tx *gorm.DB, owner any, guid string) error {
	m.GUID = truncateGUID(guid)
	return tx.Model(owner).UpdateColumn("guid", m.GUID).Error
}

func temporaryGUID() string {
	return "tmp_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:MaxGUIDSize-4]
}

func truncateGUID(guid string) string {
	if len(guid) > MaxGUIDSize {
		return guid[:MaxGUIDSize]
	}
	return guid
}

// Slugify lowercases and transliterates s, using underscores as separators.
func Slugify(s string) string {
	return strings.ReplaceAll(slug.Make(s), "-", "_")
}

func formatGUID(format string, id uint, label string) string {
	return fmt.Sprintf(format, id, Slugify(label))
}

// All returns every persisted model, used for schema migrations in tests.
func All() []any {
	return []any{
		&User{}, &Project{}, &ProjectCategory{}, &Family{}, &FamilyAnalysedBy{}, &Individual{}, &Sample{},
		&IgvSample{}, &SavedVariant{}, &VariantTagType{}, &VariantTag{}, &VariantNote{},
		&VariantFunctionalData{}, &GeneNote{}, &LocusList{}, &LocusListGene{}, &PaLocusListGene{},
		&LocusListInterval{}, &AnalysisGroup{}, &VariantSearch{}, &VariantSearchResults{},
		&MatchmakerSubmission{}, &RnaSeqOutlier{}, &RnaSeqTpm{}, &GeneInfo{}, &GeneConstraint{},
	}
}
