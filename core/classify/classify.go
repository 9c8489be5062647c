package classify

import (
	"errors"
	"regexp"
	"strings"
)

// Kind labels what a model reply contains.
type Kind int

const (
	// KindNarration means the whole reply is spoken conversation.
	KindNarration Kind = iota
	// KindProblem means the reply carries a coding problem statement.
	KindProblem
	// KindSolution means the reply carries a solution code block.
	KindSolution
)

func (k Kind) String() string {
	switch k {
	case KindProblem:
		return "problem"
	case KindSolution:
		return "solution"
	default:
		return "narration"
	}
}

// Marker keywords are matched case-sensitively against the literal words the
// prompt instructs the model to use.
const (
	problemMarker  = "Problem"
	solutionMarker = "Solution"
)

var (
	// ErrNoMarker is returned when the reply contains no marker keyword at all.
	ErrNoMarker = errors.New("no marker in reply")
	// ErrMalformed is returned when the marker keyword is present but the
	// structural delimiters around the payload do not match. Callers should
	// fall back to a looser extraction before treating the reply as narration.
	ErrMalformed = errors.New("marker present but payload delimiters unmatched")
)

// Extraction is the result of splitting a reply into its spoken and
// structured parts.
type Extraction struct {
	// Narration is the text surrounding the payload block, joined with a
	// single space, intended for speech synthesis.
	Narration string
	// Payload is the problem statement or solution code between the delimiters.
	Payload string
}

// Payload blocks open with the marker keyword (optionally numbered, e.g.
// "Problem 1:") and close with the "--" terminator the prompt mandates.
var (
	problemPattern  = regexp.MustCompile(`(?s)^(.*?)Problem(?:\s+\d+)?\s*[:.]?\s*(.+?)\s*--(.*)$`)
	solutionPattern = regexp.MustCompile(`(?s)^(.*?)Solution(?:\s+\d+)?\s*[:.]?\s*(.+?)\s*--(.*)$`)
	fencePattern    = regexp.MustCompile("(?s)^(.*?)```(?:[a-zA-Z0-9_+-]*\n)?(.+?)```(.*)$")
)

// DetectKind scans a complete reply for marker keywords. Problem takes
// precedence if both markers appear.
func DetectKind(reply string) Kind {
	switch {
	case strings.Contains(reply, problemMarker):
		return KindProblem
	case strings.Contains(reply, solutionMarker):
		return KindSolution
	default:
		return KindNarration
	}
}

// Extract splits the reply into narration and payload for the given kind.
// Returns ErrNoMarker when the marker keyword is absent, and ErrMalformed
// when the keyword is present but the delimiters around the payload do not
// match; the two are distinct so the caller can pick a fallback strategy.
func Extract(reply string, kind Kind) (Extraction, error) {
	var marker string
	var pattern *regexp.Regexp
	switch kind {
	case KindProblem:
		marker, pattern = problemMarker, problemPattern
	case KindSolution:
		marker, pattern = solutionMarker, solutionPattern
	default:
		return Extraction{}, ErrNoMarker
	}

	if !strings.Contains(reply, marker) {
		return Extraction{}, ErrNoMarker
	}

	matches := pattern.FindStringSubmatch(reply)
	if matches == nil {
		return Extraction{}, ErrMalformed
	}

	return Extraction{
		Narration: joinNarration(matches[1], matches[3]),
		Payload:   strings.TrimSpace(matches[2]),
	}, nil
}

// ExtractFenced is the looser fallback: it pulls the first triple-backtick
// code block out of the reply and treats everything else as narration.
func ExtractFenced(reply string) (Extraction, error) {
	matches := fencePattern.FindStringSubmatch(reply)
	if matches == nil {
		return Extraction{}, ErrNoMarker
	}

	return Extraction{
		Narration: joinNarration(matches[1], matches[3]),
		Payload:   strings.TrimSpace(matches[2]),
	}, nil
}

func joinNarration(before, after string) string {
	before = strings.TrimSpace(before)
	after = strings.TrimSpace(after)
	switch {
	case before == "":
		return after
	case after == "":
		return before
	default:
		return before + " " + after
	}
}
