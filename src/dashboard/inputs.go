package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iafilius/StackflowDashboard/src/apiclient"
)

const (
	DefaultTopN = 10
	MinTopN     = 1
	MaxTopN     = 100
)

// TrendEpoch is the default start of the trend range, the first month of Stack Overflow data.
var TrendEpoch = time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC)

// InputError is a rejected user input; no request is issued for it.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// TrendInput is the raw text of the trend panel's entries.
type TrendInput struct {
	Tag   string
	Start string
	End   string
}

// TrendQuery is a validated trend request.
type TrendQuery struct {
	Tag        string
	Start, End time.Time
}

// Params encodes q with the backend's parameter names.
func (q TrendQuery) Params() apiclient.Params {
	return apiclient.Params{"tagName": q.Tag, "start": q.Start, "end": q.End}
}

// ParseTrendInput validates in. Blank start means TrendEpoch and blank end means now.
func ParseTrendInput(in TrendInput, now time.Time) (TrendQuery, error) {
	tag := strings.TrimSpace(in.Tag)
	if tag == "" {
		return TrendQuery{}, &InputError{Field: "tag name", Value: in.Tag, Reason: "must not be blank"}
	}
	start, err := parseInstant("start", in.Start, TrendEpoch)
	if err != nil {
		return TrendQuery{}, err
	}
	end, err := parseInstant("end", in.End, now.UTC())
	if err != nil {
		return TrendQuery{}, err
	}
	if start.After(end) {
		return TrendQuery{}, &InputError{Field: "start", Value: in.Start, Reason: "is after end " + end.Format(time.RFC3339)}
	}
	return TrendQuery{Tag: tag, Start: start, End: end}, nil
}

func parseInstant(field, s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &InputError{Field: field, Value: s, Reason: "want RFC 3339, YYYY-MM-DD or YYYY-MM"}
}

// ParseTopN reads the pair-count entry. Blank means DefaultTopN.
func ParseTopN(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTopN, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InputError{Field: "pair count", Value: s, Reason: "not an integer"}
	}
	if n < MinTopN || n > MaxTopN {
		return 0, &InputError{Field: "pair count", Value: s, Reason: fmt.Sprintf("must be between %d and %d", MinTopN, MaxTopN)}
	}
	return n, nil
}
