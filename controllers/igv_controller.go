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
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type IgvController struct {
	igvService shared.IgvService
}

func NewIgvController(igvService shared.IgvService) *IgvController {
	return &IgvController{igvService: igvService}
}

// @Summary Create or update the igv track of an individual
// @Tags Igv
// @Param projectGuid path string true "Project guid"
// @Param individualGuid path string true "Individual guid"
// @Param body body dtos.IgvSampleUpdateRequest true "Request body"
// @Success 200 {object} object{igvSamplesByGuid=object,individualsByGuid=object}
// @Router /projects/{projectGuid}/individuals/{individualGuid}/igv [post]
func (c *IgvController) Update(ctx shared.Context) error {
	var req dtos.IgvSampleUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}

	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	res, err := c.igvService.UpdateIndividualIgvSample(ctx.Request().Context(), shared.GetUser(ctx), shared.GetIndividual(ctx), req.FilePath, req.SampleID)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidRequest) {
			return echo.NewHTTPError(400, err.Error())
		}
		return echo.NewHTTPError(500, "could not update igv sample").WithInternal(err)
	}

	return ctx.JSON(200, res)
}

// @Summary Parse an igv table upload
// @Description Rows are individual id, file path and an optional sample id. Nothing is stored, the proposed updates are returned.
// @Tags Igv
// @Param projectGuid path string true "Project guid"
// @Param file formData file true "Tab or comma separated table"
// @Success 200 {object} object{updates=[]object,errors=[]string,info=[]string}
// @Router /projects/{projectGuid}/igv/upload [post]
func (c *IgvController) ReceiveTable(ctx shared.Context) error {
	var maxSize int64 = 16 * 1024 * 1024 // 16mb
	if err := ctx.Request().ParseMultipartForm(maxSize); err != nil {
		return echo.NewHTTPError(400, "could not parse upload").WithInternal(err)
	}
	file, header, err := ctx.Request().FormFile("file")
	if err != nil {
		return echo.NewHTTPError(400, "request must contain a file").WithInternal(err)
	}
	defer file.Close()

	project, err := shared.GetProject(ctx)
	if err != nil {
		return echo.NewHTTPError(500, "could not get project").WithInternal(err)
	}

	res, err := c.igvService.ReceiveIgvTable(ctx.Request().Context(), project, header.Filename, file)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidRequest) {
			return echo.NewHTTPError(400, err.Error())
		}
		return echo.NewHTTPError(500, "could not process igv table").WithInternal(err)
	}
	return ctx.JSON(200, res)
}

// @Summary Stream an igv track file
// @Description Honors a single byte Range header and answers it with 206.
// @Tags Igv
// @Param projectGuid path string true "Project guid"
// @Param path path string true "Url encoded track path"
// @Success 200 {file} file
// @Success 206 {file} file
// @Router /projects/{projectGuid}/igv-track/{path} [get]
func (c *IgvController) FetchTrack(ctx shared.Context) error {
	// the trailing slash middleware appends a slash to unencoded paths
	trackPath, err := url.PathUnescape(strings.TrimSuffix(ctx.Param("*"), "/"))
	if err != nil || trackPath == "" {
		return echo.NewHTTPError(400, "invalid track path")
	}
	project, err := shared.GetProject(ctx)
	if err != nil {
		return echo.NewHTTPError(500, "could not get project").WithInternal(err)
	}

	stream, err := c.igvService.FetchIgvTrack(ctx.Request().Context(), project, trackPath, ctx.Request().Header.Get("Range"))
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			return echo.NewHTTPError(404, "track not found").WithInternal(err)
		case errors.Is(err, shared.ErrRangeNotSatisfiable):
			return echo.NewHTTPError(416, err.Error())
		case errors.Is(err, shared.ErrInvalidRequest):
			return echo.NewHTTPError(400, err.Error())
		}
		return echo.NewHTTPError(500, "could not fetch track").WithInternal(err)
	}
	defer func() {
		if err := stream.Body.Close(); err != nil {
			slog.Warn("could not close igv track", "err", err, "path", trackPath)
		}
	}()

	header := ctx.Response().Header()
	header.Set("Accept-Ranges", "bytes")
	if stream.ContentLength >= 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(stream.ContentLength, 10))
	}
	status := http.StatusOK
	if stream.ContentRange != "" {
		header.Set("Content-Range", stream.ContentRange)
		status = http.StatusPartialContent
	}
	return ctx.Stream(status, echo.MIMEOctetStream, stream.Body)
}
