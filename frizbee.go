// Package frizbee implements a high-throughput, typo-resistant fuzzy
// string matcher for interactive fuzzy finders: given a short needle query
// and a list of haystack candidates, it reports, for each candidate that
// survives filtering, a score reflecting match quality and, on request,
// the haystack byte positions the needle aligned to.
//
// The public surface mirrors github.com/junegunn/fzf's split between a
// scoring core (package engine and package prefilter) and a thin driving
// layer (this package): Matcher owns one Prefilter and one scoring Engine
// per needle, exactly as fzf's fuzzyMatcherV2 owns a reusable util.Slab.
package frizbee

import (
	"fmt"
	"sort"

	"github.com/saghen/frizbee/internal/fingerprint"
	"github.com/saghen/frizbee/internal/needle"
	"github.com/saghen/frizbee/internal/rank"
	"github.com/saghen/frizbee/internal/scoring"
	"github.com/saghen/frizbee/engine"
	"github.com/saghen/frizbee/prefilter"
)

// Scoring holds the tunable reward/penalty parameters the DP recurrence and
// greedy fallback apply. Defined in internal/scoring to let the engine,
// prefilter and needle packages share it without importing this package.
type Scoring = scoring.Scoring

// Default returns fzf-derived default scoring parameters.
func Default() Scoring { return scoring.Default() }

// Config controls a Matcher's filtering and ordering behavior.
type Config struct {
	// MaxTypos bounds the number of needle characters an alignment may
	// skip. nil disables typo filtering entirely (every prefiltered
	// candidate is scored and kept); a pointer to 0 means exact coverage.
	// Haystacks longer than engine.MaxHaystackLen go to the greedy
	// fallback instead, which drops any haystack the needle is not a
	// subsequence of, whatever MaxTypos is.
	MaxTypos *int
	// Sort requests descending-score, ascending-index-tiebreak ordering.
	// When false, results preserve ascending haystack index order.
	Sort    bool
	Scoring Scoring
}

// DefaultConfig returns a Config with typo filtering disabled, sorting on,
// and default Scoring.
func DefaultConfig() Config {
	return Config{MaxTypos: nil, Sort: true, Scoring: Default()}
}

// Match is one scored haystack candidate.
type Match struct {
	Index uint32
	Score uint16
	Exact bool
}

// MatchIndices is a Match plus the ascending haystack byte positions that
// aligned with needle characters.
type MatchIndices struct {
	Match
	Indices []int
}

// Matcher drives the prefilter and scoring engine over a haystack list for
// one needle/config pair, reusing its internal matrices across calls
// (spec's "Shared matrices" design note).
type Matcher struct {
	cfg    Config
	needle *needle.Needle
	pre    *prefilter.Prefilter
	eng    *engine.Engine
	greedy *engine.Greedy
	fp     uint64
}

// New builds a Matcher for needle n under cfg.
func New(n []byte, cfg Config) *Matcher {
	m := &Matcher{cfg: cfg, fp: fingerprint.Of(cfg.Scoring)}
	m.needle = needle.New(n, cfg.Scoring)
	m.pre = prefilter.New(m.needle)
	m.eng = engine.New(m.needle, cfg.Scoring)
	m.greedy = engine.NewGreedy(m.needle, cfg.Scoring)
	return m
}

// SetNeedle swaps in a new needle, re-deriving the prefilter/engine state
// (spec.md §7: fatal contract violation if n overflows the scoring's
// overflow-safe bound — needle.New panics in that case).
func (m *Matcher) SetNeedle(n []byte) {
	m.needle = needle.New(n, m.cfg.Scoring)
	m.pre = prefilter.New(m.needle)
	m.eng.SetNeedle(m.needle)
	m.greedy = engine.NewGreedy(m.needle, m.cfg.Scoring)
}

// SetConfig swaps in a new Config. If the scoring configuration actually
// changed (per its fingerprint), the needle is re-derived against it;
// otherwise frizbee skips the redundant re-broadcast work.
func (m *Matcher) SetConfig(cfg Config) {
	newFP := fingerprint.Of(cfg.Scoring)
	if newFP != m.fp {
		m.fp = newFP
		m.eng.SetScoring(cfg.Scoring)
		m.greedy = engine.NewGreedy(m.needle, cfg.Scoring)
		m.needle = needle.New(m.needle.Raw, cfg.Scoring)
		m.pre = prefilter.New(m.needle)
		m.eng.SetNeedle(m.needle)
	}
	m.cfg = cfg
}

// MatchList implements spec.md §4.4's one-shot contract over haystacks.
func (m *Matcher) MatchList(haystacks [][]byte) []Match {
	if len(haystacks) > 0xFFFFFFFF {
		panic(fmt.Sprintf("frizbee: haystack count %d overflows u32", len(haystacks)))
	}
	if m.needle.Len() == 0 {
		out := make([]Match, len(haystacks))
		for i := range haystacks {
			out[i] = Match{Index: uint32(i)}
		}
		return out
	}

	out := make([]Match, 0, len(haystacks))
	for i, h := range haystacks {
		if mt, ok := m.matchOne(h); ok {
			mt.Index = uint32(i)
			out = append(out, mt)
		}
	}
	if m.cfg.Sort {
		sortMatches(out)
	}
	return out
}

// MatchListIndices mirrors MatchList but returns MatchIndices records.
func (m *Matcher) MatchListIndices(haystacks [][]byte) []MatchIndices {
	if len(haystacks) > 0xFFFFFFFF {
		panic(fmt.Sprintf("frizbee: haystack count %d overflows u32", len(haystacks)))
	}
	if m.needle.Len() == 0 {
		out := make([]MatchIndices, len(haystacks))
		for i := range haystacks {
			out[i] = MatchIndices{Match: Match{Index: uint32(i)}}
		}
		return out
	}

	out := make([]MatchIndices, 0, len(haystacks))
	for i, h := range haystacks {
		if mi, ok := m.matchOneIndices(h); ok {
			mi.Index = uint32(i)
			out = append(out, mi)
		}
	}
	if m.cfg.Sort {
		sortMatchIndices(out)
	}
	return out
}

func (m *Matcher) matchOne(h []byte) (Match, bool) {
	if !m.lengthAdmits(h) {
		return Match{}, false
	}
	if len(h) > engine.MaxHaystackLen {
		score, _, ok := m.greedy.MatchHaystackIndices(h, m.cfg.MaxTypos)
		if !ok {
			return Match{}, false
		}
		exact := m.isExact(h, 0)
		if exact {
			score = scoringSatAdd(score, m.cfg.Scoring.ExactMatchBonus)
		}
		return Match{Score: score, Exact: exact}, true
	}

	ok, skipped := m.pre.MatchHaystack(h, m.cfg.MaxTypos)
	if !ok {
		return Match{}, false
	}
	sub := h[skipped*16:]
	score, ok := m.eng.MatchHaystack(sub, m.cfg.MaxTypos)
	if !ok {
		return Match{}, false
	}
	if skipped == 0 && m.isExact(h, 0) {
		score = scoringSatAdd(score, m.cfg.Scoring.ExactMatchBonus)
	}
	return Match{Score: score, Exact: skipped == 0 && m.isExact(h, 0)}, true
}

func (m *Matcher) matchOneIndices(h []byte) (MatchIndices, bool) {
	if !m.lengthAdmits(h) {
		return MatchIndices{}, false
	}
	if len(h) > engine.MaxHaystackLen {
		score, indices, ok := m.greedy.MatchHaystackIndices(h, m.cfg.MaxTypos)
		if !ok {
			return MatchIndices{}, false
		}
		exact := m.isExact(h, 0)
		if exact {
			score = scoringSatAdd(score, m.cfg.Scoring.ExactMatchBonus)
		}
		return MatchIndices{Match: Match{Score: score, Exact: exact}, Indices: indices}, true
	}

	ok, skipped := m.pre.MatchHaystack(h, m.cfg.MaxTypos)
	if !ok {
		return MatchIndices{}, false
	}
	sub := h[skipped*16:]
	score, indices, ok := m.eng.MatchHaystackIndices(sub, m.cfg.MaxTypos)
	if !ok {
		return MatchIndices{}, false
	}
	for i := range indices {
		indices[i] += skipped * 16
	}
	exact := skipped == 0 && m.isExact(h, 0)
	if exact {
		score = scoringSatAdd(score, m.cfg.Scoring.ExactMatchBonus)
	}
	return MatchIndices{Match: Match{Score: score, Exact: exact}, Indices: indices}, true
}

// lengthAdmits implements spec.md §4.4 step 3's cheap length check.
func (m *Matcher) lengthAdmits(h []byte) bool {
	n := m.needle.Len()
	if m.cfg.MaxTypos == nil {
		return true
	}
	return len(h) >= n-*m.cfg.MaxTypos
}

func (m *Matcher) isExact(h []byte, off int) bool {
	raw := m.needle.Raw
	if len(h)-off != len(raw) {
		return false
	}
	for i, b := range raw {
		if h[off+i] != b {
			return false
		}
	}
	return true
}

func scoringSatAdd(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	if sum > 0xFFFF {
		return 0xFFFF
	}
	return uint16(sum)
}

func sortMatches(ms []Match) {
	sort.Slice(ms, func(i, j int) bool {
		return rank.Less(rank.Of(ms[i].Index, ms[i].Score), rank.Of(ms[j].Index, ms[j].Score))
	})
}

func sortMatchIndices(ms []MatchIndices) {
	sort.Slice(ms, func(i, j int) bool {
		return rank.Less(rank.Of(ms[i].Index, ms[i].Score), rank.Of(ms[j].Index, ms[j].Score))
	})
}
