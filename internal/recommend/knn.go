// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/scoutlens/scoutlens/internal/stats"
)

// filterCandidates applies the query's position and numeric filters. Row
// order is preserved so downstream stable sorts break ties by table order.
func filterCandidates(table *stats.PlayerTable, q *Query) []stats.PlayerRecord {
	out := make([]stats.PlayerRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		if q.Position != "" && row.Position != q.Position {
			continue
		}
		if q.MinRating > 0 {
			if v, ok := row.Stat(stats.ColRating); !ok || v < q.MinRating {
				continue
			}
		}
		if q.MaxAge > 0 {
			if v, ok := row.Stat(stats.ColAge); !ok || v > float64(q.MaxAge) {
				continue
			}
		}
		if q.MinMinutes > 0 {
			if v, ok := row.Stat(stats.ColMinutes); !ok || v < q.MinMinutes {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}

// resolveColumns intersects the query's requested columns with the table's
// populated intersection.
func resolveColumns(table *stats.PlayerTable, q *Query, minFeatures int) ([]string, error) {
	requested := q.requestedColumns()
	if len(requested) == 0 {
		return nil, ErrEmptyFeatureSet
	}

	available := make(map[string]struct{}, len(table.Columns))
	for _, col := range table.Columns {
		available[col] = struct{}{}
	}

	cols := make([]string, 0, len(requested))
	for _, col := range requested {
		if _, ok := available[col]; ok {
			cols = append(cols, col)
		}
	}

	if len(cols) < minFeatures {
		return nil, fmt.Errorf("%w: %d usable of %d requested, need %d",
			ErrInsufficientFeatures, len(cols), len(requested), minFeatures)
	}
	return cols, nil
}

// buildMatrix extracts the selected columns into row vectors, mean-imputes
// values the upstream never populated, and standardizes each column over
// the candidate set. A constant column scales to zero rather than NaN.
func buildMatrix(rows []stats.PlayerRecord, cols []string) [][]float64 {
	matrix := make([][]float64, len(rows))
	for i := range matrix {
		matrix[i] = make([]float64, len(cols))
	}

	for j, col := range cols {
		var sum float64
		var n int
		for _, row := range rows {
			if v, ok := row.Stat(col); ok {
				sum += v
				n++
			}
		}
		mean := 0.0
		if n > 0 {
			mean = sum / float64(n)
		}

		for i, row := range rows {
			if v, ok := row.Stat(col); ok {
				matrix[i][j] = v
			} else {
				matrix[i][j] = mean
			}
		}

		var colSum float64
		for i := range rows {
			colSum += matrix[i][j]
		}
		colMean := colSum / float64(len(rows))

		var variance float64
		for i := range rows {
			d := matrix[i][j] - colMean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(len(rows)))

		for i := range rows {
			if std == 0 {
				matrix[i][j] = 0
				continue
			}
			matrix[i][j] = (matrix[i][j] - colMean) / std
		}
	}

	return matrix
}

// centroid returns the mean vector of the matrix.
func centroid(matrix [][]float64) []float64 {
	if len(matrix) == 0 {
		return nil
	}
	c := make([]float64, len(matrix[0]))
	for _, row := range matrix {
		for j, v := range row {
			c[j] += v
		}
	}
	for j := range c {
		c[j] /= float64(len(matrix))
	}
	return c
}

// euclidean returns the L2 distance between two vectors.
func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// cosineDistance returns 1 - cosine similarity. A zero vector on either
// side yields the maximum distance of 1.
func cosineDistance(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 1
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// Clamp float drift so distance stays in [0, 2].
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return 1 - sim
}

// scoreAgainst ranks candidates by distance to a reference vector.
// Every row carrying refID is skipped, not just the anchor row: a player
// can hold several rows (one per statistics block), and none of them may
// surface in that player's own result. Pass refID 0 to keep all rows.
// Similarity is 1/(1+distance). The sort is stable so ties keep
// candidate order.
func scoreAgainst(rows []stats.PlayerRecord, matrix [][]float64, ref []float64, refID int, metric string, k int) []ScoredPlayer {
	scored := make([]ScoredPlayer, 0, len(rows))
	for i := range rows {
		if refID != 0 && rows[i].PlayerID == refID {
			continue
		}

		var d float64
		if metric == "cosine" {
			d = cosineDistance(matrix[i], ref)
		} else {
			d = euclidean(matrix[i], ref)
		}

		scored = append(scored, ScoredPlayer{
			Player:     rows[i],
			Distance:   d,
			Similarity: 1 / (1 + d),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})

	if k > 0 && k < len(scored) {
		scored = scored[:k]
	}
	return scored
}
