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
	"github.com/l3montree-dev/genoguard/shared"
	"go.uber.org/fx"
)

// Module provides all repository constructors as their interfaces
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewPreloader, fx.As(new(shared.Preloader)))),
	fx.Provide(fx.Annotate(NewUserRepository, fx.As(new(shared.UserRepository)))),
	fx.Provide(fx.Annotate(NewProjectRepository, fx.As(new(shared.ProjectRepository)))),
	fx.Provide(fx.Annotate(NewFamilyRepository, fx.As(new(shared.FamilyRepository)))),
	fx.Provide(fx.Annotate(NewIndividualRepository, fx.As(new(shared.IndividualRepository)))),
	fx.Provide(fx.Annotate(NewSampleRepository, fx.As(new(shared.SampleRepository)))),
	fx.Provide(fx.Annotate(NewIgvSampleRepository, fx.As(new(shared.IgvSampleRepository)))),
	fx.Provide(fx.Annotate(NewSavedVariantRepository, fx.As(new(shared.SavedVariantRepository)))),
	fx.Provide(fx.Annotate(NewVariantTagRepository, fx.As(new(shared.VariantTagRepository)))),
	fx.Provide(fx.Annotate(NewVariantTagTypeRepository, fx.As(new(shared.VariantTagTypeRepository)))),
	fx.Provide(fx.Annotate(NewVariantNoteRepository, fx.As(new(shared.VariantNoteRepository)))),
	fx.Provide(fx.Annotate(NewVariantFunctionalDataRepository, fx.As(new(shared.VariantFunctionalDataRepository)))),
	fx.Provide(fx.Annotate(NewGeneRepository, fx.As(new(shared.GeneRepository)))),
	fx.Provide(fx.Annotate(NewLocusListRepository, fx.As(new(shared.LocusListRepository)))),
	fx.Provide(fx.Annotate(NewRnaSeqRepository, fx.As(new(shared.RnaSeqRepository)))),
	fx.Provide(fx.Annotate(NewVariantSearchResultsRepository, fx.As(new(shared.VariantSearchResultsRepository)))),
	fx.Provide(fx.Annotate(NewVariantSearchRepository, fx.As(new(shared.VariantSearchRepository)))),
	fx.Provide(fx.Annotate(NewAnalysisGroupRepository, fx.As(new(shared.AnalysisGroupRepository)))),
)
