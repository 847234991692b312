package floors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectCandidates(t *testing.T, desiredRuleKey [][]string, delimiter string) []string {
	t.Helper()

	var candidates []string
	it := newRuleKeyCandidateIterator(desiredRuleKey, delimiter)
	for candidate, ok := it.next(); ok; candidate, ok = it.next() {
		candidates = append(candidates, candidate)
	}
	return candidates
}

func TestCandidateIteratorOrder(t *testing.T) {
	tt := []struct {
		name string
		in   [][]string
		out  []string
	}{
		{
			name: "One field",
			in:   [][]string{{"a"}},
			out: []string{
				"a",
				"*",
			},
		},
		{
			name: "Two fields",
			in:   [][]string{{"a"}, {"b"}},
			out: []string{
				"a|b",
				"a|*",
				"*|b",
				"*|*",
			},
		},
		{
			name: "Three fields",
			in:   [][]string{{"a"}, {"b"}, {"c"}},
			out: []string{
				"a|b|c",
				"a|b|*",
				"a|*|c",
				"*|b|c",
				"a|*|*",
				"*|b|*",
				"*|*|c",
				"*|*|*",
			},
		},
		{
			name: "Four fields",
			in:   [][]string{{"a"}, {"b"}, {"c"}, {"d"}},
			out: []string{
				"a|b|c|d",
				"a|b|c|*",
				"a|b|*|d",
				"a|*|c|d",
				"*|b|c|d",
				"a|b|*|*",
				"a|*|c|*",
				"a|*|*|d",
				"*|b|c|*",
				"*|b|*|d",
				"*|*|c|d",
				"a|*|*|*",
				"*|b|*|*",
				"*|*|c|*",
				"*|*|*|d",
				"*|*|*|*",
			},
		},
		{
			name: "Multiple values for one field",
			in:   [][]string{{"banner"}, {"300x250", "728x90"}},
			out: []string{
				"banner|300x250",
				"banner|728x90",
				"banner|*",
				"*|300x250",
				"*|728x90",
				"*|*",
			},
		},
		{
			name: "Implicit wildcard skips the base level and pins the field",
			in:   [][]string{{"a"}, {"*"}, {"c"}},
			out: []string{
				"a|*|c",
				"a|*|*",
				"*|*|c",
				"*|*|*",
			},
		},
		{
			name: "All implicit wildcards",
			in:   [][]string{{"*"}, {"*"}},
			out: []string{
				"*|*",
			},
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.out, collectCandidates(t, tc.in, "|"))
		})
	}
}

func TestCandidateIteratorPadsWithLastValue(t *testing.T) {
	it := newRuleKeyCandidateIterator([][]string{{"site.com", "app.com"}, {"x", "y", "z"}}, "|")

	// the first relaxation level has no wildcards; the second field offers
	// three values, so the first field repeats its last value to align
	expected := []string{
		"site.com|x",
		"site.com|y",
		"site.com|z",
		"app.com|x",
		"app.com|y",
		"app.com|z",
	}

	var level []string
	for candidate, ok := it.next(); ok; candidate, ok = it.next() {
		if strings.Contains(candidate, catchAll) {
			break
		}
		level = append(level, candidate)
	}
	assert.Equal(t, expected, level)
}

func TestCandidateIteratorImplicitWildcardNeverConcrete(t *testing.T) {
	desiredRuleKey := [][]string{{"banner", "video"}, {"*"}, {"usa"}}

	for _, candidate := range collectCandidates(t, desiredRuleKey, "|") {
		segments := strings.Split(candidate, "|")
		assert.Equal(t, catchAll, segments[1],
			"implicitly wildcarded field must stay a wildcard in candidate %q", candidate)
	}
}

func TestCandidateIteratorCustomDelimiter(t *testing.T) {
	candidates := collectCandidates(t, [][]string{{"a"}, {"b"}}, ",")
	assert.Equal(t, []string{"a,b", "a,*", "*,b", "*,*"}, candidates)
}

func TestCandidateIteratorExhaustion(t *testing.T) {
	it := newRuleKeyCandidateIterator([][]string{{"a"}}, "|")

	for candidate, ok := it.next(); ok; candidate, ok = it.next() {
		_ = candidate
	}

	// once exhausted the iterator stays exhausted
	_, ok := it.next()
	assert.False(t, ok)
}
