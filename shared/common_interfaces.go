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

package shared

import (
	"context"
	"fmt"
	"io"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"gorm.io/gorm"
)

// Preloader reloads entities by primary key with the given gorm relation paths
// ("Family.Project") fetched in bulk.
type Preloader interface {
	Preload(ctx context.Context, dest any, ids []uint, relations ...string) error
}

type SearchIndex interface {
	// GetVariantsForVariantIDs returns the current annotation for the variant ids within the families.
	// Every entry carries at least variantId and familyGuids.
	GetVariantsForVariantIDs(ctx context.Context, families []models.Family, variantIDs []string, user *models.User) ([]dtos.JSON, error)
}

type CacheClient interface {
	Keys(ctx context.Context, pattern string) ([]string, error)
	Delete(ctx context.Context, keys ...string) error
}

// ByteRange is an inclusive range of bytes. A negative End reads to the end of the file.
type ByteRange struct {
	Start int64
	End   int64
}

// Header renders the range as a Range request header value.
func (r ByteRange) Header() string {
	if r.End < 0 {
		return fmt.Sprintf("bytes=%d-", r.Start)
	}
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End)
}

type FileStream struct {
	Body io.ReadCloser
	// ContentLength is -1 when unknown.
	ContentLength int64
	// ContentRange is only set for partial content, e.g. "bytes 0-99/1000".
	ContentRange string
}

type FileStore interface {
	DoesFileExist(ctx context.Context, path string) (bool, error)
	// Open streams the file, or only byteRange of it when set.
	Open(ctx context.Context, path string, byteRange *ByteRange) (FileStream, error)
}

type AccessControl interface {
	HasProjectPermission(user models.User, projectGUID string, permission Permission) (bool, error)
	GrantProjectPermission(user models.User, projectGUID string, permission Permission) error
	RevokeProjectPermission(user models.User, projectGUID string, permission Permission) error
	GetProjectCollaborators(projectGUID string, permission Permission) ([]string, error)

	IsAnalyst(user models.User) (bool, error)
	GrantAnalyst(user models.User) error
}

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
}

type ProjectRepository interface {
	ReadByGUID(ctx context.Context, guid string) (models.Project, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Project, error)
	// FindByNameOrGUID matches each identifier against the project name or guid. No identifiers returns all projects.
	FindByNameOrGUID(ctx context.Context, identifiers []string) ([]models.Project, error)
}

type FamilyRepository interface {
	ListByIDs(ctx context.Context, ids []uint) ([]models.Family, error)
	ListByGUIDs(ctx context.Context, guids []string) ([]models.Family, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.Family, error)
}

type IndividualRepository interface {
	ReadByGUID(ctx context.Context, guid string) (models.Individual, error)
	ListByFamilyIDs(ctx context.Context, familyIDs []uint) ([]models.Individual, error)
	// ListByProjectAndIdentifiers matches individual_id within the families of the project.
	ListByProjectAndIdentifiers(ctx context.Context, projectID uint, identifiers []string) ([]models.Individual, error)
}

type SampleRepository interface {
	ListActiveByIndividualIDs(ctx context.Context, individualIDs []uint) ([]models.Sample, error)
}

type IgvSampleRepository interface {
	ListByIndividualIDs(ctx context.Context, individualIDs []uint) ([]models.IgvSample, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.IgvSample, error)
	FindByIndividualAndType(ctx context.Context, individualID uint, sampleType string) (models.IgvSample, error)
	Create(ctx context.Context, tx *gorm.DB, user models.User, sample *models.IgvSample) error
	Update(ctx context.Context, tx *gorm.DB, user models.User, sample *models.IgvSample, updates map[string]any) error
}

type SavedVariantRepository interface {
	ListByGUIDs(ctx context.Context, guids []string) ([]models.SavedVariant, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.SavedVariant, error)
	ListByProject(ctx context.Context, projectID uint, familyGUIDs []string) ([]models.SavedVariant, error)
	ListByProjectAndGUIDs(ctx context.Context, projectID uint, guids []string) ([]models.SavedVariant, error)
	// ListForReload returns the saved variants of a project, optionally limited to one family_id,
	// with their family preloaded.
	ListForReload(ctx context.Context, projectID uint, familyID string) ([]models.SavedVariant, error)
	// ListByVariantIDs returns the saved variants of all families sharing the variant ids.
	ListByVariantIDs(ctx context.Context, variantIDs []string) ([]models.SavedVariant, error)
	Update(ctx context.Context, tx *gorm.DB, user models.User, variant *models.SavedVariant, updates map[string]any) error
	Transaction(f func(tx *gorm.DB) error) error
}

type VariantTagRepository interface {
	ListBySavedVariantIDs(ctx context.Context, savedVariantIDs []uint) ([]models.VariantTag, error)
	ListDiscoveryTagsBySavedVariantIDs(ctx context.Context, savedVariantIDs []uint) ([]models.VariantTag, error)
}

type VariantTagTypeRepository interface {
	// ListForProjects returns the tag types of the projects together with the global ones.
	ListForProjects(ctx context.Context, projectIDs []uint) ([]models.VariantTagType, error)
}

type VariantNoteRepository interface {
	ListBySavedVariantIDs(ctx context.Context, savedVariantIDs []uint) ([]models.VariantNote, error)
	ReadByGUID(ctx context.Context, guid string) (models.VariantNote, error)
	DeleteModel(ctx context.Context, user models.User, note *models.VariantNote, userCanDelete bool) error
}

type VariantFunctionalDataRepository interface {
	ListBySavedVariantIDs(ctx context.Context, savedVariantIDs []uint) ([]models.VariantFunctionalData, error)
}

type GeneRepository interface {
	ListByGeneIDs(ctx context.Context, geneIDs []string) ([]models.GeneInfo, error)
	ListConstraintsByGeneIDs(ctx context.Context, geneIDs []string) ([]models.GeneConstraint, error)
	CountConstraints(ctx context.Context) (int64, error)
	ListNotesByGeneIDs(ctx context.Context, geneIDs []string) ([]models.GeneNote, error)
}

type LocusListRepository interface {
	ListByProjectIDs(ctx context.Context, projectIDs []uint) ([]models.LocusList, error)
	// ListGenes returns the locus list genes matching geneIDs with their locus list and panel app review.
	ListGenes(ctx context.Context, locusListIDs []uint, geneIDs []string) ([]models.LocusListGene, error)
	ListIntervals(ctx context.Context, locusListIDs []uint) ([]models.LocusListInterval, error)
}

type RnaSeqRepository interface {
	// ListSignificantOutliers returns outliers with an adjusted p-value below the significance threshold,
	// with sample and individual preloaded.
	ListSignificantOutliers(ctx context.Context, geneIDs []string, familyIDs []uint) ([]models.RnaSeqOutlier, error)
	FamilyIDsWithTpm(ctx context.Context, familyIDs []uint) ([]uint, error)
}

type VariantSearchResultsRepository interface {
	GUIDsByProject(ctx context.Context, projectID uint) ([]string, error)
}

type VariantSearchRepository interface {
	ListVisible(ctx context.Context, userID uint) ([]models.VariantSearch, error)
}

type AnalysisGroupRepository interface {
	ListByProject(ctx context.Context, projectID uint) ([]models.AnalysisGroup, error)
}

type SavedVariantService interface {
	GetSavedVariantsWithTags(ctx context.Context, variants []models.SavedVariant, opts SavedVariantsWithTagsOptions) (dtos.SavedVariantsWithTags, error)
	GetDiscoveryTags(ctx context.Context, variants []dtos.JSON) (map[string][]dtos.JSON, map[string]dtos.JSON, error)
	UpdateProjectSavedVariantJSON(ctx context.Context, project models.Project, familyID string, user *models.User) ([]string, error)
}

type SavedVariantsWithTagsOptions struct {
	User                   *models.User
	AddDetails             bool
	IncludeMissingVariants bool
}

type VariantResponseService interface {
	GetVariantsResponse(ctx context.Context, user models.User, savedVariants []models.SavedVariant, opts VariantsResponseOptions) (dtos.VariantsResponse, error)
}

type VariantsResponseOptions struct {
	ResponseVariants       []dtos.JSON
	AddAllContext          bool
	IncludeIgv             bool
	AddLocusListDetail     bool
	IncludeRnaSeq          bool
	IncludeMissingVariants bool
	LoadProjectTagTypes    bool
	LoadFamilyContext      bool
}

func DefaultVariantsResponseOptions() VariantsResponseOptions {
	return VariantsResponseOptions{IncludeIgv: true, IncludeRnaSeq: true}
}

type ProjectContextService interface {
	AddProjectTagTypes(ctx context.Context, projectsByGUID map[string]dtos.JSON) error
	AddFamiliesContext(ctx context.Context, response *dtos.VariantsResponse, families []models.Family, user models.User, opts FamiliesContextOptions) error
	GetCollaborators(ctx context.Context, project models.Project) ([]dtos.JSON, error)
	// GetProjectOverview returns the project with its tag types and analysis groups.
	GetProjectOverview(ctx context.Context, project models.Project, user models.User) (dtos.JSON, error)
}

type FamiliesContextOptions struct {
	HasCaseReviewPerm bool
	IncludeIgv        bool
}

type CacheService interface {
	ResetCachedSearchResults(ctx context.Context, project *models.Project, resetIndexMetadata bool)
}

type IgvService interface {
	UpdateIndividualIgvSample(ctx context.Context, user models.User, individual models.Individual, filePath string, sampleID *string) (dtos.JSON, error)
	// ReceiveIgvTable parses an upload of individual_id, file path and optional sample id rows and returns
	// the igv sample updates it proposes. Nothing is stored.
	ReceiveIgvTable(ctx context.Context, project models.Project, filename string, content io.Reader) (dtos.JSON, error)
	// FetchIgvTrack streams a track file registered in the project, or one of its index files.
	FetchIgvTrack(ctx context.Context, project models.Project, trackPath string, rangeHeader string) (FileStream, error)
}
