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

// FunctionalDataTagType describes one entry of the fixed functional data taxonomy.
type FunctionalDataTagType struct {
	Category      string `json:"category"`
	Name          string `json:"name"`
	MetadataTitle string `json:"metadataTitle"`
	Color         string `json:"color"`
	Description   string `json:"description"`
}

const defaultFunctionalDataMetadataTitle = "Notes"

var FunctionalDataTags = []FunctionalDataTagType{
	{Category: "Functional Data", Name: "Biochemical Function", MetadataTitle: defaultFunctionalDataMetadataTitle, Color: "#311B92",
		Description: "Gene product performs a biochemical function shared with other known genes in the disease of interest, or consistent with the phenotype."},
	{Category: "Functional Data", Name: "Protein Interaction", MetadataTitle: defaultFunctionalDataMetadataTitle, Color: "#4A148C",
		Description: "Gene product interacts with proteins previously implicated (genetically or biochemically) in the disease of interest."},
	{Category: "Functional Data", Name: "Expression", MetadataTitle: defaultFunctionalDataMetadataTitle, Color: "#7C4DFF",
		Description: "Gene is expressed in tissues relevant to the disease of interest and/or is altered in expression in patients who have the disease."},
	{Category: "Functional Data", Name: "Patient Cells", MetadataTitle: defaultFunctionalDataMetadataTitle, Color: "#B388FF",
		Description: "Gene and/or gene product function is demonstrably altered in patients carrying candidate mutations."},
	{Category: "Functional Data", Name: "Non-patient cells", MetadataTitle: defaultFunctionalDataMetadataTitle, Color: "#9575CD",
		Description: "Gene and/or gene product function is demonstrably altered in human cell culture models carrying candidate mutations."},
	{Category: "Functional Data", Name: "Animal Model", MetadataTitle: defaultFunctionalDataMetadataTitle, Color: "#AA00FF",
		Description: "Non-human animal models with a similarly disrupted copy of the affected gene show a phenotype consistent with human disease state."},
	{Category: "Functional Data", Name: "Non-human cell culture model", MetadataTitle: defaultFunctionalDataMetadataTitle, Color: "#BA68C8",
		Description: "Non-human cell-culture models with a similarly disrupted copy of the affected gene show a phenotype consistent with human disease state."},
	{Category: "Functional Data", Name: "Rescue", MetadataTitle: defaultFunctionalDataMetadataTitle, Color: "#663399",
		Description: "The cellular phenotype in patient-derived cells or engineered equivalents can be rescued by addition of the wild-type gene product."},
	{Category: "Functional Scores", Name: "Genome-wide Linkage", MetadataTitle: "LOD Score", Color: "#880E4F",
		Description: "Max LOD score used in analysis to restrict where you looked for causal variants; provide best score available, whether it be a cumulative LOD score across multiple families or just the best family's LOD score."},
	{Category: "Functional Scores", Name: "Bonferroni corrected p-value", MetadataTitle: "P-value", Color: "#E91E63",
		Description: "Bonferroni-corrected p-value for gene if association testing/burden testing/etc was used to identify the gene."},
	{Category: "Functional Scores", Name: "Kindreds w/ Overlapping SV & Similar Phenotype", MetadataTitle: "#", Color: "#FF5252",
		Description: "Number of kindreds (1+) previously reported/in databases as having structural variant overlapping the gene and a similar phenotype."},
	{Category: "Additional Kindreds (Literature, MME)", Name: "Additional Unrelated Kindreds w/ Causal Variants in Gene", MetadataTitle: "# additional families", Color: "#D84315",
		Description: "Number of additional kindreds with causal variants in this gene (Any other kindreds from collaborators, MME, literature etc). Do not count your family in this total."},
}

var functionalDataTagsByName = func() map[string]FunctionalDataTagType {
	m := make(map[string]FunctionalDataTagType, len(FunctionalDataTags))
	for _, t := range FunctionalDataTags {
		m[t.Name] = t
	}
	return m
}()

func LookupFunctionalDataTag(name string) (FunctionalDataTagType, bool) {
	t, ok := functionalDataTagsByName[name]
	return t, ok
}
