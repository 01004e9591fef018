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

package utils

import (
	"fmt"
	"strings"
)

// xpos = chromIndex * 1e9 + pos
const xposChromMultiplier int64 = 1_000_000_000

var chromosomes = []string{
	"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15", "16", "17",
	"18", "19", "20", "21", "22", "X", "Y", "M",
}

var chromToIndex = func() map[string]int64 {
	m := make(map[string]int64, len(chromosomes))
	for i, c := range chromosomes {
		m[c] = int64(i + 1)
	}
	return m
}()

func GetXpos(chrom string, pos int64) (int64, error) {
	chrom = strings.TrimPrefix(strings.ToUpper(chrom), "CHR")
	if chrom == "MT" {
		chrom = "M"
	}
	idx, ok := chromToIndex[chrom]
	if !ok {
		return 0, fmt.Errorf("invalid chromosome: %s", chrom)
	}
	return idx*xposChromMultiplier + pos, nil
}

func GetChromPos(xpos int64) (string, int64) {
	idx := xpos / xposChromMultiplier
	pos := xpos % xposChromMultiplier
	if idx < 1 || int(idx) > len(chromosomes) {
		return "", pos
	}
	return chromosomes[idx-1], pos
}
