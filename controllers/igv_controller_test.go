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

package controllers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/mocks"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/utils"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIgvControllerUpdate(t *testing.T) {
	user := models.User{Username: "analyst"}
	individual := models.Individual{IndividualIdentifier: "child"}
	individual.GUID = "I0000001_child"

	newContext := func(body string) (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		ctx := echo.New().NewContext(req, rec)
		shared.SetUser(ctx, user)
		shared.SetIndividual(ctx, individual)
		return ctx, rec
	}

	t.Run("should return the updated igv samples", func(t *testing.T) {
		igvService := mocks.NewIgvService(t)
		igvService.On("UpdateIndividualIgvSample", mock.Anything, user, individual, "s3://bucket/child.cram", utils.Ptr("NA12878")).
			Return(dtos.JSON{"igvSamplesByGuid": map[string]any{"S0000000001_child": map[string]any{"sampleType": "alignment"}}}, nil)

		ctx, rec := newContext(`{"filePath": "s3://bucket/child.cram", "sampleId": "NA12878"}`)
		require.NoError(t, NewIgvController(igvService).Update(ctx))
		assert.Equal(t, 200, rec.Code)
		assert.JSONEq(t, `{"igvSamplesByGuid":{"S0000000001_child":{"sampleType":"alignment"}}}`, rec.Body.String())
	})

	t.Run("should require a file path", func(t *testing.T) {
		ctx, _ := newContext(`{"sampleId": "NA12878"}`)
		err := NewIgvController(mocks.NewIgvService(t)).Update(ctx)
		assert.Equal(t, 400, httpCode(t, err))
	})

	t.Run("should answer invalid requests with 400", func(t *testing.T) {
		igvService := mocks.NewIgvService(t)
		igvService.On("UpdateIndividualIgvSample", mock.Anything, user, individual, "/data/child.vcf", (*string)(nil)).
			Return(nil, errors.Wrap(shared.ErrInvalidRequest, "invalid file extension"))

		ctx, _ := newContext(`{"filePath": "/data/child.vcf"}`)
		err := NewIgvController(igvService).Update(ctx)
		assert.Equal(t, 400, httpCode(t, err))
	})

	t.Run("should answer other errors with 500", func(t *testing.T) {
		igvService := mocks.NewIgvService(t)
		igvService.On("UpdateIndividualIgvSample", mock.Anything, user, individual, "/data/child.bam", (*string)(nil)).
			Return(nil, errors.New("connection refused"))

		ctx, _ := newContext(`{"filePath": "/data/child.bam"}`)
		err := NewIgvController(igvService).Update(ctx)
		assert.Equal(t, 500, httpCode(t, err))
	})
}

func TestIgvControllerReceiveTable(t *testing.T) {
	project := models.Project{Name: "Test Project"}
	project.GUID = "R0001_test_project"

	newContext := func(t *testing.T, filename, content string) (echo.Context, *httptest.ResponseRecorder) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
		rec := httptest.NewRecorder()
		ctx := echo.New().NewContext(req, rec)
		shared.SetProject(ctx, project)
		return ctx, rec
	}
	readsTable := func(expected string) any {
		return mock.MatchedBy(func(r io.Reader) bool {
			b, err := io.ReadAll(r)
			return err == nil && string(b) == expected
		})
	}

	t.Run("should return the proposed updates", func(t *testing.T) {
		igvService := mocks.NewIgvService(t)
		igvService.On("ReceiveIgvTable", mock.Anything, project, "igv.tsv", readsTable("child\t/c.cram\n")).
			Return(dtos.JSON{"updates": []dtos.JSON{{"individualGuid": "I0000001_child", "filePath": "/c.cram"}}, "errors": []string{}, "info": []string{"Parsed 1 rows in 1 individuals from igv.tsv"}}, nil)

		ctx, rec := newContext(t, "igv.tsv", "child\t/c.cram\n")
		require.NoError(t, NewIgvController(igvService).ReceiveTable(ctx))
		assert.Equal(t, 200, rec.Code)
		assert.JSONEq(t, `{"updates":[{"individualGuid":"I0000001_child","filePath":"/c.cram"}],"errors":[],"info":["Parsed 1 rows in 1 individuals from igv.tsv"]}`, rec.Body.String())
	})

	t.Run("should require a file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		ctx := echo.New().NewContext(req, httptest.NewRecorder())
		shared.SetProject(ctx, project)

		err := NewIgvController(mocks.NewIgvService(t)).ReceiveTable(ctx)
		assert.Equal(t, 400, httpCode(t, err))
	})

	t.Run("should answer unknown individuals with 400", func(t *testing.T) {
		igvService := mocks.NewIgvService(t)
		igvService.On("ReceiveIgvTable", mock.Anything, project, "igv.tsv", mock.Anything).
			Return(nil, errors.Wrap(shared.ErrInvalidRequest, "the following individual ids do not exist: ghost"))

		ctx, _ := newContext(t, "igv.tsv", "ghost\t/g.cram\n")
		err := NewIgvController(igvService).ReceiveTable(ctx)
		assert.Equal(t, 400, httpCode(t, err))
	})
}

func TestIgvControllerFetchTrack(t *testing.T) {
	project := models.Project{Name: "Test Project"}
	project.GUID = "R0001_test_project"

	newContext := func(trackParam, rangeHeader string) (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if rangeHeader != "" {
			req.Header.Set("Range", rangeHeader)
		}
		rec := httptest.NewRecorder()
		ctx := echo.New().NewContext(req, rec)
		ctx.SetParamNames("*")
		ctx.SetParamValues(trackParam)
		shared.SetProject(ctx, project)
		return ctx, rec
	}

	t.Run("should answer a range request with partial content", func(t *testing.T) {
		igvService := mocks.NewIgvService(t)
		igvService.On("FetchIgvTrack", mock.Anything, project, "s3://bucket/child.bam", "bytes=0-3").Return(shared.FileStream{
			Body:          io.NopCloser(strings.NewReader("0123")),
			ContentLength: 4,
			ContentRange:  "bytes 0-3/10",
		}, nil)

		ctx, rec := newContext("s3%3A%2F%2Fbucket%2Fchild.bam", "bytes=0-3")
		require.NoError(t, NewIgvController(igvService).FetchTrack(ctx))
		assert.Equal(t, http.StatusPartialContent, rec.Code)
		assert.Equal(t, "0123", rec.Body.String())
		assert.Equal(t, "4", rec.Header().Get(echo.HeaderContentLength))
		assert.Equal(t, "bytes 0-3/10", rec.Header().Get("Content-Range"))
		assert.Equal(t, echo.MIMEOctetStream, rec.Header().Get(echo.HeaderContentType))
	})

	t.Run("should stream the whole file without a range", func(t *testing.T) {
		igvService := mocks.NewIgvService(t)
		igvService.On("FetchIgvTrack", mock.Anything, project, "/data/child.bam", "").Return(shared.FileStream{
			Body:          io.NopCloser(strings.NewReader("0123456789")),
			ContentLength: -1,
		}, nil)

		ctx, rec := newContext("/data/child.bam/", "")
		require.NoError(t, NewIgvController(igvService).FetchTrack(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "0123456789", rec.Body.String())
		assert.Empty(t, rec.Header().Get(echo.HeaderContentLength))
		assert.Empty(t, rec.Header().Get("Content-Range"))
	})

	t.Run("should map service errors to status codes", func(t *testing.T) {
		cases := map[error]int{
			errors.Wrap(shared.ErrNotFound, "unknown track"):           404,
			errors.Wrap(shared.ErrRangeNotSatisfiable, "bytes=100-"):   416,
			errors.Wrap(shared.ErrInvalidRequest, "unsupported range"): 400,
			errors.New("connection reset"):                             500,
		}
		for serviceErr, code := range cases {
			igvService := mocks.NewIgvService(t)
			igvService.On("FetchIgvTrack", mock.Anything, project, "/data/child.bam", "").Return(shared.FileStream{}, serviceErr)

			ctx, _ := newContext("/data/child.bam", "")
			err := NewIgvController(igvService).FetchTrack(ctx)
			assert.Equal(t, code, httpCode(t, err), serviceErr.Error())
		}
	})

	t.Run("should reject an empty path", func(t *testing.T) {
		ctx, _ := newContext("/", "")
		err := NewIgvController(mocks.NewIgvService(t)).FetchTrack(ctx)
		assert.Equal(t, 400, httpCode(t, err))
	})
}
