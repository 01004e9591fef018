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

package variantsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/utils"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

var _ shared.SearchIndex = &client{}

type client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

func NewClient(baseURL string) *client {
	return &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		rateLimiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 10),
	}
}

type lookupFamily struct {
	FamilyGUID    string `json:"familyGuid"`
	FamilyID      string `json:"familyId"`
	ProjectGUID   string `json:"projectGuid,omitempty"`
	GenomeVersion string `json:"genomeVersion,omitempty"`
}

type lookupRequest struct {
	VariantIDs []string       `json:"variantIds"`
	Families   []lookupFamily `json:"families"`
	User       string         `json:"user,omitempty"`
}

type lookupResponse struct {
	Variants []dtos.JSON `json:"variants"`
}

// GetVariantsForVariantIDs posts the lookup to <baseURL>/variants/lookup.
func (c *client) GetVariantsForVariantIDs(ctx context.Context, families []models.Family, variantIDs []string, user *models.User) ([]dtos.JSON, error) {
	if len(variantIDs) == 0 {
		return []dtos.JSON{}, nil
	}
	body := lookupRequest{
		VariantIDs: variantIDs,
		Families: utils.Map(families, func(f models.Family) lookupFamily {
			res := lookupFamily{FamilyGUID: f.GUID, FamilyID: f.FamilyIdentifier}
			if f.Project != nil {
				res.ProjectGUID = f.Project.GUID
				res.GenomeVersion = f.Project.GenomeVersion
			}
			return res
		}),
	}
	if user != nil {
		body.User = user.Username
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/variants/lookup", bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not reach search index")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not look up variants: %s", res.Status)
	}

	var response lookupResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, errors.Wrap(err, "could not decode search index response")
	}
	if response.Variants == nil {
		return []dtos.JSON{}, nil
	}
	return response.Variants, nil
}
