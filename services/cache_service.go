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

package services

import (
	"context"
	"log/slog"
	"slices"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/monitoring"
	"github.com/l3montree-dev/genoguard/shared"
)

var _ shared.CacheService = &cacheService{}

type cacheService struct {
	cacheClient                    shared.CacheClient
	variantSearchResultsRepository shared.VariantSearchResultsRepository
}

func NewCacheService(cacheClient shared.CacheClient, variantSearchResultsRepository shared.VariantSearchResultsRepository) *cacheService {
	return &cacheService{
		cacheClient:                    cacheClient,
		variantSearchResultsRepository: variantSearchResultsRepository,
	}
}

// ResetCachedSearchResults deletes the cached search results of the project, or of all projects when project is nil.
// The cache is best effort: every failure is logged and swallowed.
func (s *cacheService) ResetCachedSearchResults(ctx context.Context, project *models.Project, resetIndexMetadata bool) {
	patterns := []string{"search_results__*"}
	if project != nil {
		resultGUIDs, err := s.variantSearchResultsRepository.GUIDsByProject(ctx, project.ID)
		if err != nil {
			slog.Error("unable to reset cached search results", "err", err, "project", project.GUID)
			return
		}
		patterns = make([]string, 0, len(resultGUIDs))
		for _, guid := range resultGUIDs {
			patterns = append(patterns, "search_results__"+guid+"*")
		}
	}
	if resetIndexMetadata {
		patterns = append(patterns, "index_metadata__*")
	}

	var keys []string
	for _, pattern := range patterns {
		matched, err := s.cacheClient.Keys(ctx, pattern)
		if err != nil {
			slog.Error("unable to reset cached search results", "err", err, "pattern", pattern)
			return
		}
		keys = append(keys, matched...)
	}
	keys = slices.Compact(slices.Sorted(slices.Values(keys)))

	if len(keys) == 0 {
		slog.Info("no cached results to reset")
		return
	}
	if err := s.cacheClient.Delete(ctx, keys...); err != nil {
		slog.Error("unable to reset cached search results", "err", err, "keys", len(keys))
		return
	}
	monitoring.SearchCacheKeysDeletedAmount.Add(float64(len(keys)))
	slog.Info("reset cached results", "amount", len(keys))
}
