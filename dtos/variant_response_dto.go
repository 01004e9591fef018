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

package dtos

// JSON is a projected entity record keyed by camelCase field names.
type JSON = map[string]any

type SavedVariantsWithTags struct {
	SavedVariantsByGUID         map[string]JSON `json:"savedVariantsByGuid"`
	VariantTagsByGUID           map[string]JSON `json:"variantTagsByGuid"`
	VariantNotesByGUID          map[string]JSON `json:"variantNotesByGuid"`
	VariantFunctionalDataByGUID map[string]JSON `json:"variantFunctionalDataByGuid"`
	// DiscoveryTags is keyed by the genomic variant key, not by guid.
	DiscoveryTags  map[string][]JSON `json:"discoveryTags,omitempty"`
	FamiliesByGUID map[string]JSON   `json:"familiesByGuid,omitempty"`
}

func NewSavedVariantsWithTags() SavedVariantsWithTags {
	return SavedVariantsWithTags{
		SavedVariantsByGUID:         map[string]JSON{},
		VariantTagsByGUID:           map[string]JSON{},
		VariantNotesByGUID:          map[string]JSON{},
		VariantFunctionalDataByGUID: map[string]JSON{},
	}
}

type RnaSeqIndividualData struct {
	Outliers map[string]JSON `json:"outliers"`
}

type VariantsResponse struct {
	SavedVariantsWithTags
	GenesByID         map[string]JSON                 `json:"genesById"`
	LocusListsByGUID  map[string]JSON                 `json:"locusListsByGuid"`
	ProjectsByGUID    map[string]JSON                 `json:"projectsByGuid,omitempty"`
	IndividualsByGUID map[string]JSON                 `json:"individualsByGuid,omitempty"`
	SamplesByGUID     map[string]JSON                 `json:"samplesByGuid,omitempty"`
	IgvSamplesByGUID  map[string]JSON                 `json:"igvSamplesByGuid,omitempty"`
	RnaSeqData        map[string]RnaSeqIndividualData `json:"rnaSeqData,omitempty"`
}

// ByGUID indexes records by the value stored under key.
func ByGUID(records []JSON, key string) map[string]JSON {
	res := make(map[string]JSON, len(records))
	for _, r := range records {
		if guid, ok := r[key].(string); ok {
			res[guid] = r
		}
	}
	return res
}
