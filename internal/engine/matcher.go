package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/model"
)

// Matcher evaluates row descriptions against an ordered reference set.
// It is read-only after construction and safe for concurrent use.
type Matcher struct {
	compiledRegex map[int]*regexp.Regexp
	keywords      []string
	refs          []model.Reference
	warnings      []string
	mode          model.MatchMode
	caseSensitive bool
}

// NewMatcher prepares refs for the configured match mode. Patterns are
// compiled once; references whose pattern does not compile never match. An
// unknown mode is an error wrapping common.ErrInvalidOptions.
func NewMatcher(refs []model.Reference, opts model.Options) (*Matcher, error) {
	mode, err := model.ParseMatchMode(string(opts.Mode))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidOptions, err)
	}

	m := &Matcher{
		compiledRegex: make(map[int]*regexp.Regexp),
		keywords:      make([]string, len(refs)),
		refs:          refs,
		mode:          mode,
		caseSensitive: opts.CaseSensitive,
	}

	for i, ref := range refs {
		keyword := ref.Keyword()
		if keyword == "" {
			continue
		}

		switch mode {
		case model.MatchWholeWord:
			re, err := common.CompilePattern(common.WholeWordPattern(keyword), m.caseSensitive)
			if err != nil {
				m.warnings = append(m.warnings, fmt.Sprintf("reference %q cannot be matched as a word: %v", ref.Name, err))
				continue
			}
			m.compiledRegex[i] = re
		case model.MatchRegex:
			re, err := common.CompilePattern(keyword, m.caseSensitive)
			if err != nil {
				m.warnings = append(m.warnings, fmt.Sprintf("reference %q has an invalid pattern: %v", ref.Name, err))
				continue
			}
			m.compiledRegex[i] = re
		default:
			m.keywords[i] = m.fold(keyword)
		}
	}

	return m, nil
}

// Match returns the first reference, in set order, whose keyword matches
// description.
func (m *Matcher) Match(description string) (model.Reference, bool) {
	text := m.fold(description)

	for i, ref := range m.refs {
		if m.matchesRule(i, text) {
			return ref, true
		}
	}

	return model.Reference{}, false
}

// Warnings lists references that were skipped because their pattern is invalid.
func (m *Matcher) Warnings() []string {
	return m.warnings
}

func (m *Matcher) matchesRule(i int, text string) bool {
	if m.mode == model.MatchContains {
		keyword := m.keywords[i]
		return keyword != "" && strings.Contains(text, keyword)
	}

	re, ok := m.compiledRegex[i]
	return ok && re.MatchString(text)
}

func (m *Matcher) fold(s string) string {
	if m.caseSensitive {
		return s
	}
	return strings.ToLower(s)
}
