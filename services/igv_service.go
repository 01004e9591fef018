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
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/monitoring"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/transformer"
	"github.com/l3montree-dev/genoguard/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type igvSampleType struct {
	suffix     string
	sampleType string
}

// the first matching suffix wins, so junctions.bed.gz has to come before bed.gz
var igvSampleTypes = []igvSampleType{
	{suffix: "bam", sampleType: models.IgvSampleTypeAlignment},
	{suffix: "cram", sampleType: models.IgvSampleTypeAlignment},
	{suffix: "bigWig", sampleType: models.IgvSampleTypeCoverage},
	{suffix: "junctions.bed.gz", sampleType: models.IgvSampleTypeJunctions},
	{suffix: "bed.gz", sampleType: models.IgvSampleTypeGcnv},
}

// IgvSampleTypeForPath maps a track file to its igv sample type.
func IgvSampleTypeForPath(filePath string) (string, error) {
	for _, t := range igvSampleTypes {
		if strings.HasSuffix(filePath, t.suffix) {
			return t.sampleType, nil
		}
	}
	suffixes := utils.Map(igvSampleTypes, func(t igvSampleType) string { return t.suffix })
	return "", errors.Wrap(shared.ErrInvalidRequest, fmt.Sprintf("invalid file extension for %q - valid extensions are %s", filePath, strings.Join(suffixes, ", ")))
}

var _ shared.IgvService = &igvService{}

type igvService struct {
	igvSampleRepository  shared.IgvSampleRepository
	individualRepository shared.IndividualRepository
	fileStore            shared.FileStore
	preloader            shared.Preloader
}

func NewIgvService(igvSampleRepository shared.IgvSampleRepository, individualRepository shared.IndividualRepository, fileStore shared.FileStore, preloader shared.Preloader) *igvService {
	return &igvService{
		igvSampleRepository:  igvSampleRepository,
		individualRepository: individualRepository,
		fileStore:            fileStore,
		preloader:            preloader,
	}
}

// UpdateIndividualIgvSample registers the track file for the individual. An individual has at most one igv
// sample per sample type, an existing one gets the new file path and sample id.
// The individual needs its family and project loaded.
func (s *igvService) UpdateIndividualIgvSample(ctx context.Context, user models.User, individual models.Individual, filePath string, sampleID *string) (dtos.JSON, error) {
	if filePath == "" {
		return nil, errors.Wrap(shared.ErrInvalidRequest, "request must contain fields: filePath")
	}
	sampleType, err := IgvSampleTypeForPath(filePath)
	if err != nil {
		monitoring.IgvSampleUpdateAmount.WithLabelValues("invalid").Inc()
		return nil, err
	}
	exists, err := s.fileStore.DoesFileExist(ctx, filePath)
	if err != nil {
		slog.Warn("could not check igv file", "err", err, "path", filePath)
	}
	if !exists {
		monitoring.IgvSampleUpdateAmount.WithLabelValues("invalid").Inc()
		return nil, errors.Wrap(shared.ErrInvalidRequest, fmt.Sprintf("error accessing %q", filePath))
	}

	created := false
	sample, err := s.igvSampleRepository.FindByIndividualAndType(ctx, individual.ID, sampleType)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sample = models.IgvSample{IndividualID: individual.ID, SampleType: sampleType, FilePath: filePath, SampleID: sampleID}
		if err := s.igvSampleRepository.Create(ctx, nil, user, &sample); err != nil {
			return nil, errors.Wrap(err, "could not create igv sample")
		}
		created = true
	case err != nil:
		return nil, errors.Wrap(err, "could not fetch igv sample")
	default:
		err := s.igvSampleRepository.Update(ctx, nil, user, &sample, map[string]any{"file_path": filePath, "sample_id": sampleID})
		if err != nil {
			return nil, errors.Wrap(err, "could not update igv sample")
		}
		sample.FilePath, sample.SampleID = filePath, sampleID
	}

	opts := transformer.SampleOptions{IndividualGUID: individual.GUID}
	if individual.Family != nil {
		opts.FamilyGUID = individual.Family.GUID
		if individual.Family.Project != nil {
			opts.ProjectGUID = individual.Family.Project.GUID
		}
	}
	samplesJSON, err := transformer.IgvSamplesToJSON(ctx, s.preloader, []models.IgvSample{sample}, opts)
	if err != nil {
		return nil, err
	}

	response := dtos.JSON{"igvSamplesByGuid": dtos.JSON{sample.GUID: samplesJSON[0]}}
	outcome := "updated"
	if created {
		outcome = "created"
		samples, err := s.igvSampleRepository.ListByIndividualIDs(ctx, []uint{individual.ID})
		if err != nil {
			return nil, errors.Wrap(err, "could not fetch igv samples")
		}
		response["individualsByGuid"] = dtos.JSON{
			individual.GUID: dtos.JSON{"igvSampleGuids": utils.Map(samples, func(s models.IgvSample) string { return s.GUID })},
		}
	}
	monitoring.IgvSampleUpdateAmount.WithLabelValues(outcome).Inc()
	return response, nil
}

type igvTableRow struct {
	filePath string
	sampleID *string
}

// parseIgvTable reads tab separated rows, comma separated for .csv uploads. There is no header row.
func parseIgvTable(filename string, content io.Reader) (map[string][]igvTableRow, []string, int, error) {
	reader := csv.NewReader(content)
	reader.Comma = '\t'
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		reader.Comma = ','
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, 0, errors.Wrap(shared.ErrInvalidRequest, fmt.Sprintf("could not parse %s: %s", filename, err))
	}

	rows := map[string][]igvTableRow{}
	// individual ids in upload order
	order := []string{}
	count := 0
	for _, record := range records {
		record = utils.Map(record, strings.TrimSpace)
		if len(record) == 1 && record[0] == "" {
			continue
		}
		if len(record) < 2 || len(record) > 3 {
			return nil, nil, 0, errors.Wrap(shared.ErrInvalidRequest, "must contain 2 or 3 columns: "+strings.Join(record, ", "))
		}
		row := igvTableRow{filePath: record[1]}
		if len(record) == 3 && record[2] != "" {
			row.sampleID = utils.Ptr(record[2])
		}
		if _, ok := rows[record[0]]; !ok {
			order = append(order, record[0])
		}
		rows[record[0]] = append(rows[record[0]], row)
		count++
	}
	return rows, order, count, nil
}

// ReceiveIgvTable matches the uploaded rows to the individuals of the project. Rows whose file is already
// registered for the individual are reported as unchanged and left out of the updates.
func (s *igvService) ReceiveIgvTable(ctx context.Context, project models.Project, filename string, content io.Reader) (dtos.JSON, error) {
	rows, order, count, err := parseIgvTable(filename, content)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.Wrap(shared.ErrInvalidRequest, fmt.Sprintf("%s contains no rows", filename))
	}

	individuals, err := s.individualRepository.ListByProjectAndIdentifiers(ctx, project.ID, order)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch individuals")
	}
	matched := map[string]struct{}{}
	for _, i := range individuals {
		matched[i.IndividualIdentifier] = struct{}{}
	}
	unmatched := []string{}
	for _, id := range order {
		if _, ok := matched[id]; !ok {
			unmatched = append(unmatched, id)
		}
	}
	if len(unmatched) > 0 {
		return nil, errors.Wrap(shared.ErrInvalidRequest, "the following individual ids do not exist: "+strings.Join(unmatched, ", "))
	}

	info := []string{fmt.Sprintf("Parsed %d rows in %d individuals from %s", count, len(rows), filename)}

	samples, err := s.igvSampleRepository.ListByIndividualIDs(ctx, utils.Map(individuals, func(i models.Individual) uint { return i.ID }))
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch igv samples")
	}
	existingFiles := map[uint]map[string]struct{}{}
	for _, sample := range samples {
		if existingFiles[sample.IndividualID] == nil {
			existingFiles[sample.IndividualID] = map[string]struct{}{}
		}
		existingFiles[sample.IndividualID][sample.FilePath] = struct{}{}
	}

	type unchangedRow struct {
		individualID string
		filePath     string
	}
	unchanged := map[unchangedRow]struct{}{}
	updates := []dtos.JSON{}
	for _, i := range individuals {
		for _, row := range rows[i.IndividualIdentifier] {
			if _, ok := existingFiles[i.ID][row.filePath]; ok {
				unchanged[unchangedRow{individualID: i.IndividualIdentifier, filePath: row.filePath}] = struct{}{}
				continue
			}
			updates = append(updates, dtos.JSON{"individualGuid": i.GUID, "filePath": row.filePath, "sampleId": row.sampleID})
		}
	}
	if len(unchanged) > 0 {
		info = append(info, fmt.Sprintf("No change detected for %d rows", len(unchanged)))
	}

	slog.Info("received igv table", "project", project.GUID, "file", filename, "rows", count, "updates", len(updates))
	return dtos.JSON{"updates": updates, "errors": []string{}, "info": info}, nil
}

var rangeHeaderPattern = regexp.MustCompile(`(?i)^bytes\s*=\s*(\d+)\s*-\s*(\d*)$`)

// ParseRangeHeader reads a single "bytes=first-last" range. The last byte may be left out. An empty header
// yields no range.
func ParseRangeHeader(header string) (*shared.ByteRange, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, nil
	}
	match := rangeHeaderPattern.FindStringSubmatch(header)
	if match == nil {
		return nil, errors.Wrap(shared.ErrInvalidRequest, fmt.Sprintf("unsupported range %q", header))
	}
	start, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return nil, errors.Wrap(shared.ErrInvalidRequest, fmt.Sprintf("unsupported range %q", header))
	}
	byteRange := &shared.ByteRange{Start: start, End: -1}
	if match[2] != "" {
		end, err := strconv.ParseInt(match[2], 10, 64)
		if err != nil || end < start {
			return nil, errors.Wrap(shared.ErrInvalidRequest, fmt.Sprintf("unsupported range %q", header))
		}
		byteRange.End = end
	}
	return byteRange, nil
}

// isProjectTrack accepts the registered track files and the files next to them that share their name as
// prefix, which covers the .bai, .crai and .tbi indexes igv asks for.
func isProjectTrack(samples []models.IgvSample, trackPath string) bool {
	for _, sample := range samples {
		if trackPath == sample.FilePath || strings.HasPrefix(trackPath, sample.FilePath+".") {
			return true
		}
		if strings.HasSuffix(sample.FilePath, ".bam") && trackPath == strings.TrimSuffix(sample.FilePath, ".bam")+".bai" {
			return true
		}
	}
	return false
}

// FetchIgvTrack streams the track file, or the requested byte range of it. A missing "x.bam.bai" index is
// looked up as "x.bai".
func (s *igvService) FetchIgvTrack(ctx context.Context, project models.Project, trackPath string, rangeHeader string) (shared.FileStream, error) {
	byteRange, err := ParseRangeHeader(rangeHeader)
	if err != nil {
		return shared.FileStream{}, err
	}

	samples, err := s.igvSampleRepository.ListByProject(ctx, project.ID)
	if err != nil {
		return shared.FileStream{}, errors.Wrap(err, "could not fetch igv samples")
	}
	if !isProjectTrack(samples, trackPath) {
		monitoring.IgvTrackFetchAmount.WithLabelValues("not_found").Inc()
		return shared.FileStream{}, errors.Wrapf(shared.ErrNotFound, "%s is not an igv track of %s", trackPath, project.GUID)
	}

	if strings.HasSuffix(trackPath, ".bam.bai") {
		exists, err := s.fileStore.DoesFileExist(ctx, trackPath)
		if err != nil {
			slog.Warn("could not check igv index", "err", err, "path", trackPath)
		}
		if !exists {
			trackPath = strings.TrimSuffix(trackPath, ".bam.bai") + ".bai"
		}
	}

	stream, err := s.fileStore.Open(ctx, trackPath, byteRange)
	if err != nil {
		monitoring.IgvTrackFetchAmount.WithLabelValues("error").Inc()
		return shared.FileStream{}, err
	}
	outcome := "full"
	if byteRange != nil {
		outcome = "partial"
	}
	monitoring.IgvTrackFetchAmount.WithLabelValues(outcome).Inc()
	return stream, nil
}
