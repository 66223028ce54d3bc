// Package selector scores and picks the best logo candidate from a
// discovered list, generalizing the teacher's BestLogoSelector (which only
// compared resolution against a minimum) into the full heuristic scoring
// formula of spec.md §4.D.
package selector

import (
	"context"
	"sort"

	"github.com/ashish-patro/logo-grouper/internal/collab"
	"github.com/ashish-patro/logo-grouper/internal/fetchimg"
	"github.com/ashish-patro/logo-grouper/internal/model"
	"github.com/ashish-patro/logo-grouper/internal/urlutil"
)

// MaxFetch caps how many top candidates are eagerly fetched, per spec.md
// §4.D.
const MaxFetch = 6

// Mode selects whether the selector fetches candidate bytes at all.
type Mode int

const (
	// Eager fetches bytes for up to MaxFetch top candidates.
	Eager Mode = iota
	// Lazy never fetches bytes; only the top candidate is returned.
	Lazy
)

// Score returns the heuristic score for a candidate given its confidence
// and (optional) image metadata, per spec.md §4.D's scoring formula.
func Score(confidence float64, info *model.ImageInfo) float64 {
	score := confidence
	if info == nil {
		return score
	}

	if info.HasAlpha {
		score += 0.05
	}

	var width, height, aspect float64
	haveWH := info.Width != nil && info.Height != nil
	if haveWH {
		width, height = *info.Width, *info.Height
	}
	haveAspect := info.AspectRatio != nil
	if haveAspect {
		aspect = *info.AspectRatio
	}

	if haveAspect && aspect >= 0.8 && aspect <= 5.0 {
		score += 0.05
	}

	if haveWH {
		if min(width, height) < 48 {
			score -= 0.10
		}
		tooWide := haveAspect && aspect > 6.0
		tooSquareOpaque := width > 1024 && height > 1024 && !info.HasAlpha
		if tooWide || tooSquareOpaque {
			score -= 0.15
		}
	}

	return score
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// SelectBest implements the full candidate-selection algorithm of spec.md
// §4.D: sort by confidence, optionally fetch bytes for the top MaxFetch
// candidates, and return the highest-scoring candidate that has bytes —
// falling back to the highest-scoring candidate overall when none fetched.
func SelectBest(ctx context.Context, candidates []model.Candidate, baseURL string, mode Mode, fetcher collab.ImageFetcher) *model.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	ordered := make([]model.Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	if mode == Lazy {
		top := ordered[0]
		if resolved, ok := urlutil.Resolve(top.Src, baseURL); ok {
			top.ResolvedSrc = resolved
		}
		return &top
	}

	var bestWithBytes *model.Candidate
	bestWithBytesScore := negInf
	var fallbackBest *model.Candidate
	fallbackScore := negInf

	for i := range ordered {
		candidate := ordered[i]
		if resolved, ok := urlutil.Resolve(candidate.Src, baseURL); ok {
			candidate.ResolvedSrc = resolved
		}

		var info *model.ImageInfo
		if i < MaxFetch {
			if data, ok := fetchimg.FetchImageBytes(ctx, fetcher, candidate.ResolvedSrc, baseURL); ok {
				candidate.ImageBytes = data
				info = fetchimg.SniffImageInfo(data)
				candidate.ImageInfo = info
			}
		}

		score := Score(candidate.Confidence, info)
		candidate.Score = score
		candidate.HasScore = true

		if score > fallbackScore {
			c := candidate
			fallbackBest = &c
			fallbackScore = score
		}
		if len(candidate.ImageBytes) > 0 && score > bestWithBytesScore {
			c := candidate
			bestWithBytes = &c
			bestWithBytesScore = score
		}
	}

	if bestWithBytes != nil {
		return bestWithBytes
	}
	return fallbackBest
}

const negInf = -1e18
