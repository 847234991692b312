package floors

import (
	"math/bits"
	"sort"
	"strings"
)

// ruleKeyCandidateIterator walks rule key candidates from most to least
// specific. It starts at the relaxation level given by the number of
// implicitly wildcarded fields and adds one wildcard per level until every
// field is wildcarded. Within a level, position subsets that wildcard
// later-declared (lower priority) fields come first. The iterator is a
// one-shot pull sequence; every resolution builds a fresh one.
type ruleKeyCandidateIterator struct {
	desiredRuleKey [][]string
	delimiter      string

	implicitWildcards []int
	wildcardNum       int
	current           []string
	currentPos        int
}

func newRuleKeyCandidateIterator(desiredRuleKey [][]string, delimiter string) *ruleKeyCandidateIterator {
	implicitWildcards := findImplicitWildcards(desiredRuleKey)
	return &ruleKeyCandidateIterator{
		desiredRuleKey:    desiredRuleKey,
		delimiter:         delimiter,
		implicitWildcards: implicitWildcards,
		wildcardNum:       len(implicitWildcards),
	}
}

// next returns the next candidate, or ok=false once every relaxation level
// is exhausted.
func (it *ruleKeyCandidateIterator) next() (string, bool) {
	for it.currentPos >= len(it.current) {
		if it.wildcardNum > len(it.desiredRuleKey) {
			return "", false
		}
		it.current = it.candidatesForLevel(it.wildcardNum)
		it.currentPos = 0
		it.wildcardNum++
	}

	candidate := it.current[it.currentPos]
	it.currentPos++
	return candidate, true
}

// findImplicitWildcards collects the positions whose value list reduced to
// the single wildcard. Those positions are wildcarded at every level.
func findImplicitWildcards(desiredRuleKey [][]string) []int {
	var implicitWildcards []int
	for i, values := range desiredRuleKey {
		if values[0] == catchAll {
			implicitWildcards = append(implicitWildcards, i)
		}
	}
	return implicitWildcards
}

// candidatesForLevel materializes, in priority order, every candidate using
// exactly wildcardNum wildcarded positions.
func (it *ruleKeyCandidateIterator) candidatesForLevel(wildcardNum int) []string {
	numFields := len(it.desiredRuleKey)

	var combinations [][]int
	for subsetBits := 0; subsetBits < 1<<numFields; subsetBits++ {
		if bits.OnesCount(uint(subsetBits)) != wildcardNum {
			continue
		}
		var positions []int
		for position := 0; position < numFields; position++ {
			if subsetBits>>position&1 == 1 {
				positions = append(positions, position)
			}
		}
		if containsAllPositions(positions, it.implicitWildcards) {
			combinations = append(combinations, positions)
		}
	}

	// later-declared fields carry less weight, so subsets wildcarding them
	// sort first and win ties within the level
	sort.SliceStable(combinations, func(i, j int) bool {
		return combinationWeight(combinations[i], numFields) < combinationWeight(combinations[j], numFields)
	})

	var candidates []string
	for _, combination := range combinations {
		candidates = append(candidates, it.combinationToCandidates(combination)...)
	}
	return candidates
}

// containsAllPositions reports whether combination covers every required
// position. Both slices are sorted ascending.
func containsAllPositions(combination, required []int) bool {
	matched := 0
	for _, position := range combination {
		if matched == len(required) {
			break
		}
		if position == required[matched] {
			matched++
		}
	}
	return matched == len(required)
}

func combinationWeight(combination []int, numFields int) int {
	weight := 0
	for _, position := range combination {
		weight += 1 << (numFields - position)
	}
	return weight
}

// combinationToCandidates materializes the deduplicated candidate strings
// for one wildcard position subset. The cross product over per-field values
// is aligned by repeating a field's last value when another field offers
// more alternatives.
func (it *ruleKeyCandidateIterator) combinationToCandidates(combination []int) []string {
	desiredRuleKey := it.desiredRuleKey

	biggestRuleKeySize := 0
	for _, values := range desiredRuleKey {
		if len(values) > biggestRuleKeySize {
			biggestRuleKeySize = len(values)
		}
	}

	var candidates [][]string
	for position, values := range desiredRuleKey {
		for _, value := range values {
			for i := 0; i < biggestRuleKeySize; i++ {
				candidates = append(candidates, candidateForPosition(desiredRuleKey, value, position, i))
			}
		}
	}

	for _, positionToReplace := range combination {
		for _, candidate := range candidates {
			candidate[positionToReplace] = catchAll
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	keys := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		key := strings.Join(candidate, it.delimiter)
		if _, duplicate := seen[key]; duplicate {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// candidateForPosition builds one candidate that holds the given value at
// the given position and the index-th value (padded with the last) at every
// other position.
func candidateForPosition(desiredRuleKey [][]string, value string, position, index int) []string {
	candidate := make([]string, len(desiredRuleKey))
	for i, values := range desiredRuleKey {
		if i == position {
			candidate[i] = value
		} else {
			candidate[i] = lastOrNth(values, index)
		}
	}
	return candidate
}

func lastOrNth(values []string, index int) string {
	if index >= len(values) {
		return values[len(values)-1]
	}
	return values[index]
}
