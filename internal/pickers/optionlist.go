package pickers

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Option is one row of an OptionList.
type Option struct {
	ID    string
	Label string
	Hint  string
}

type ListAction int

const (
	ListActionNone ListAction = iota
	ListActionMoved
	ListActionSelected
	ListActionCancelled
)

type ListResult struct {
	Action ListAction
	Option Option
}

// OptionList is a fuzzy-filtered list with a cursor. Typing narrows it,
// arrows or ctrl+n/ctrl+p move, enter selects, esc clears the filter and then cancels.
type OptionList struct {
	options  []Option
	filtered []Option
	query    string
	cursor   int
}

func NewOptionList(options []Option) *OptionList {
	l := &OptionList{options: append([]Option(nil), options...)}
	l.refilter()
	return l
}

func (l *OptionList) Query() string { return l.query }

func (l *OptionList) Cursor() int { return l.cursor }

func (l *OptionList) Visible() []Option {
	return append([]Option(nil), l.filtered...)
}

func (l *OptionList) SetQuery(q string) {
	l.query = q
	l.refilter()
}

// Focus clears the filter and puts the cursor on the option with id.
func (l *OptionList) Focus(id string) {
	l.SetQuery("")
	for i, opt := range l.filtered {
		if opt.ID == id {
			l.cursor = i
			return
		}
	}
}

func (l *OptionList) Current() (Option, bool) {
	if len(l.filtered) == 0 {
		return Option{}, false
	}
	return l.filtered[min(max(l.cursor, 0), len(l.filtered)-1)], true
}

func (l *OptionList) HandleKey(keyName string) ListResult {
	switch keyName {
	case "up", "ctrl+p":
		if l.cursor > 0 {
			l.cursor--
			return ListResult{Action: ListActionMoved}
		}
	case "down", "ctrl+n":
		if l.cursor < len(l.filtered)-1 {
			l.cursor++
			return ListResult{Action: ListActionMoved}
		}
	case "enter":
		if opt, ok := l.Current(); ok {
			return ListResult{Action: ListActionSelected, Option: opt}
		}
	case "esc":
		if l.query != "" {
			l.SetQuery("")
			return ListResult{Action: ListActionNone}
		}
		return ListResult{Action: ListActionCancelled}
	case "backspace":
		if l.query != "" {
			l.SetQuery(l.query[:len(l.query)-1])
		}
	default:
		if isPrintableASCIIKey(keyName) {
			l.SetQuery(l.query + keyName)
		}
	}
	return ListResult{Action: ListActionNone}
}

// Suggest returns the option whose label is closest to the query by edit
// distance, for when the filter matches nothing.
func (l *OptionList) Suggest() (Option, bool) {
	q := strings.ToLower(strings.TrimSpace(l.query))
	if q == "" || len(l.filtered) > 0 {
		return Option{}, false
	}
	best, bestDist := Option{}, -1
	for _, opt := range l.options {
		d := levenshtein.ComputeDistance(q, strings.ToLower(opt.Label))
		if bestDist < 0 || d < bestDist {
			best, bestDist = opt, d
		}
	}
	// A suggestion further away than the query is long is noise.
	if bestDist < 0 || bestDist > len(q) {
		return Option{}, false
	}
	return best, true
}

type scoredOption struct {
	opt   Option
	score int
	index int
}

func (l *OptionList) refilter() {
	q := strings.TrimSpace(l.query)
	scored := make([]scoredOption, 0, len(l.options))
	for idx, opt := range l.options {
		if ok, score := fuzzyMatchScore(opt.Label, q); ok {
			scored = append(scored, scoredOption{opt: opt, score: score, index: idx})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].index < scored[j].index
	})
	l.filtered = l.filtered[:0]
	for _, s := range scored {
		l.filtered = append(l.filtered, s.opt)
	}
	if l.cursor > len(l.filtered)-1 {
		l.cursor = len(l.filtered) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// fuzzyMatchScore matches query characters in order. Prefix hits, runs of
// consecutive characters and exact matches score higher.
func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	hits := make([]int, 0, len(queryLower))
	from := 0
	for i := 0; i < len(queryLower); i++ {
		j := strings.IndexByte(labelLower[from:], queryLower[i])
		if j < 0 {
			return false, 0
		}
		hits = append(hits, from+j)
		from += j + 1
	}

	score := len(queryLower)
	if hits[0] == 0 {
		score += 10
	}
	for i := 1; i < len(hits); i++ {
		if hits[i] == hits[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}

func isPrintableASCIIKey(keyName string) bool {
	return len(keyName) == 1 && keyName[0] >= 32 && keyName[0] < 127
}
