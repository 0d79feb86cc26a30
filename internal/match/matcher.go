// Package match classifies incoming statement transactions against the
// existing ledger entries of one account. Each incoming record gets exactly
// one verdict: already recorded (exact), a probable duplicate (suggestion),
// or genuinely new. The matcher is total: any well-formed input produces a
// verdict list, there is no error path.
package match

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/tallybook-dev/tallybook/internal/model"
)

// Classification is the matcher's terminal verdict for one incoming record.
type Classification string

const (
	ClassExact      Classification = "exact"
	ClassSuggestion Classification = "suggestion"
	ClassNew        Classification = "new"
)

// Result is one verdict. Confidence is 0-100 and meaningful only for exact
// and suggestion; MatchedID references the claimed ledger row, empty for new.
type Result struct {
	Incoming       model.Transaction
	Classification Classification
	Confidence     int
	MatchedID      string
}

type pair struct {
	in, ex int
	score  float64
}

// All matches every incoming record against the existing set, one Result per
// incoming record in input order. Every existing record is claimed by at most
// one incoming record: candidates are resolved in descending score order so a
// single ledger entry never absorbs several incoming duplicates.
func All(cfg Config, incoming, existing []model.Transaction) []Result {
	results := make([]Result, len(incoming))
	for i := range results {
		results[i] = Result{Incoming: incoming[i], Classification: ClassNew}
	}
	assigned := make([]bool, len(incoming))
	claimed := make([]bool, len(existing))

	// An identifier match is definitive: it short-circuits scoring entirely.
	for i, in := range incoming {
		for j, ex := range existing {
			if claimed[j] || !in.SameExternalID(ex) {
				continue
			}
			results[i] = Result{
				Incoming:       in,
				Classification: ClassExact,
				Confidence:     100,
				MatchedID:      ex.ID,
			}
			assigned[i] = true
			claimed[j] = true
			break
		}
	}

	// Score every pair surviving the amount/date prefilter. The prefilter is
	// mandatory: similarity scoring never runs on a pair that fails it.
	var pairs []pair
	for i, in := range incoming {
		if assigned[i] {
			continue
		}
		for j, ex := range existing {
			if claimed[j] || in.AmountCents != ex.AmountCents {
				continue
			}
			days := daysApart(in.Date, ex.Date)
			if days > cfg.WindowDays {
				continue
			}
			s := cfg.score(days, in.Description, ex.Description)
			if s >= cfg.LowThreshold {
				pairs = append(pairs, pair{in: i, ex: j, score: s})
			}
		}
	}

	// Greedy descending-score assignment. Ties resolve by input order so
	// runs are deterministic.
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].score != pairs[b].score {
			return pairs[a].score > pairs[b].score
		}
		if pairs[a].in != pairs[b].in {
			return pairs[a].in < pairs[b].in
		}
		return pairs[a].ex < pairs[b].ex
	})
	for _, p := range pairs {
		if assigned[p.in] || claimed[p.ex] {
			continue
		}
		assigned[p.in] = true
		claimed[p.ex] = true

		class := ClassSuggestion
		conf := confidence(p.score)
		if p.score >= cfg.HighThreshold {
			class = ClassExact
		} else if limit := int(math.Ceil(cfg.HighThreshold*100)) - 1; conf > limit {
			// Rounding must not display a suggestion at the exact cutoff.
			conf = limit
		}
		results[p.in] = Result{
			Incoming:       incoming[p.in],
			Classification: class,
			Confidence:     conf,
			MatchedID:      existing[p.ex].ID,
		}
	}

	return results
}

// score combines date proximity and description similarity. The date term is
// 1.0 at zero days apart, decaying linearly to 0 at the window edge.
func (c Config) score(days int, incomingDesc, existingDesc string) float64 {
	dateTerm := 1.0
	if c.WindowDays > 0 {
		dateTerm = 1.0 - float64(days)/float64(c.WindowDays)
	}
	return c.DateWeight*dateTerm + c.DescriptionWeight*Similarity(incomingDesc, existingDesc)
}

// Similarity is a 0.0-1.0 edit-distance ratio over case-folded descriptions.
// Casing is normalized for comparison only; callers keep the original text.
func Similarity(a, b string) float64 {
	a = strings.ToUpper(a)
	b = strings.ToUpper(b)
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func confidence(score float64) int {
	c := int(math.Round(score * 100))
	if c > 100 {
		c = 100
	}
	return c
}

func daysApart(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
