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

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var SavedVariantsResponseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "genoguard_saved_variants_response_duration_seconds",
	Help:    "Duration of assembling a saved variants response in seconds",
	Buckets: prometheus.DefBuckets,
})

var SavedVariantsReloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "genoguard_saved_variants_reload_duration_minutes",
	Help:    "Duration of reloading the saved variant json of a project in minutes",
	Buckets: prometheus.DefBuckets,
})

var SavedVariantsReloadedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "genoguard_saved_variants_reloaded_amount",
	Help: "The total number of saved variants whose json was reloaded",
})

var SavedVariantsReloadFailedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "genoguard_saved_variants_reload_failed_amount",
	Help: "The total number of projects whose saved variant reload failed",
})

var SearchCacheKeysDeletedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "genoguard_search_cache_keys_deleted_amount",
	Help: "The total number of search cache keys deleted",
})

var IgvSampleUpdateAmount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "genoguard_igv_sample_update_amount",
	Help: "The total number of igv sample updates by outcome",
}, []string{"outcome"})

var IgvTrackFetchAmount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "genoguard_igv_track_fetch_amount",
	Help: "The total number of igv track requests by outcome",
}, []string{"outcome"})
