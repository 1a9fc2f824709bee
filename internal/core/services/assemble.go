package services

import (
	"strings"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
)

// contextSeparator divides passages in the assembled context.
const contextSeparator = "\n\n"

// AssembleContext concatenates the retrieved passages in the given order,
// separated by a blank line. Retrieval rank order is preserved; an empty
// match set assembles to the empty string, which is a valid (not an error)
// outcome.
func AssembleContext(matches []domain.Match) string {
	if len(matches) == 0 {
		return ""
	}
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		if t := m.Text(); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, contextSeparator)
}
