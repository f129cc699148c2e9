package budget

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match reports whether two names refer to the same budget concept: after
// normalization, one must contain the other. Empty names never match
// anything.
func Match(a, b string, deep bool) bool {
	na, nb := Normalize(a, deep), Normalize(b, deep)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// overlaps is the wider net used by the averages engine: containment in
// either direction, or at least one shared significant token (length >= 3)
// between the deep-normalized forms.
func overlaps(itemName, description string) bool {
	ni, nd := Normalize(itemName, true), Normalize(description, true)
	if ni == "" || nd == "" {
		return false
	}
	if strings.Contains(nd, ni) || strings.Contains(ni, nd) {
		return true
	}
	return sharesSignificantToken(ni, nd)
}

func sharesSignificantToken(a, b string) bool {
	tokens := make(map[string]struct{})
	for _, t := range strings.Fields(a) {
		if len(t) >= 3 {
			tokens[t] = struct{}{}
		}
	}
	for _, t := range strings.Fields(b) {
		if len(t) < 3 {
			continue
		}
		if _, ok := tokens[t]; ok {
			return true
		}
	}
	return false
}

// FindItem returns the first budget item whose name matches the
// description, in iteration order. When several items could match, the
// first one wins.
func FindItem(items []BudgetItem, description string) *BudgetItem {
	for i := range items {
		if Match(items[i].Name, description, false) {
			return &items[i]
		}
	}
	return nil
}

// Candidate is a ranked near-match, exposed for "did you mean" style
// suggestions. Ranking never overrides the containment decision above.
type Candidate struct {
	Item  BudgetItem `json:"item"`
	Score int        `json:"score"`
}

// RankCandidates scores every budget item against the description and
// returns the top matches, highest score first.
func RankCandidates(items []BudgetItem, description string, limit int) []Candidate {
	nd := Normalize(description, false)
	if nd == "" || len(items) == 0 {
		return nil
	}

	out := make([]Candidate, 0, len(items))
	for _, item := range items {
		out = append(out, Candidate{
			Item:  item,
			Score: similarityScore(nd, Normalize(item.Name, false)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// similarityScore combines containment, Levenshtein distance and
// subsequence rank into a 0-100 score.
func similarityScore(s1, s2 string) int {
	if s1 == s2 {
		return 100
	}
	if s1 == "" || s2 == "" {
		return 0
	}

	if strings.Contains(s1, s2) {
		return 75 + (25 * len(s2) / len(s1))
	}
	if strings.Contains(s2, s1) {
		return 75 + (25 * len(s1) / len(s2))
	}

	distance := levenshtein(s1, s2)
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	levScore := 100 * (maxLen - distance) / maxLen

	rankScore := 0
	if rank := fuzzy.RankMatch(s2, s1); rank >= 0 && rank < len(s1) {
		// RankMatch returns an edit-distance rank, lower is closer,
		// -1 when s2 is not a subsequence of s1.
		rankScore = 60 - (rank * 40 / len(s1))
	}

	if levScore > rankScore {
		return levScore
	}
	return rankScore
}

// levenshtein computes edit distance with a rolling two-row matrix.
func levenshtein(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
