package form

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/mctaxshelter/site-api/internal/platform/timeutil"
)

// Kind tags the rule variants.
type Kind string

const (
	KindRequired Kind = "required"
	KindPattern  Kind = "pattern"
	KindDate     Kind = "date"
	KindEnum     Kind = "enum"
)

// Value is one submitted field after structural narrowing. OK is false when the
// field was absent, null, or not a string.
type Value struct {
	Text string
	OK   bool
}

// Blank reports whether the value is unusable: not a string or empty after trimming.
func (v Value) Blank() bool {
	return !v.OK || strings.TrimSpace(v.Text) == ""
}

// Rule is a single named predicate applied to one field. Check returns the
// message to report and false when the value violates the rule.
type Rule interface {
	Kind() Kind
	Check(label string, v Value) (string, bool)
}

// Required fails when the value is absent, not a string, or blank.
type Required struct {
	// Message overrides "<label> is required".
	Message string
}

func (Required) Kind() Kind { return KindRequired }

func (r Required) Check(label string, v Value) (string, bool) {
	if !v.Blank() {
		return "", true
	}
	if r.Message != "" {
		return r.Message, false
	}
	return label + " is required", false
}

// Pattern fails when a non-blank value does not match Re. The trimmed value is
// matched unless Untrimmed is set.
type Pattern struct {
	Re        *regexp.Regexp
	Message   string
	Untrimmed bool
}

func (Pattern) Kind() Kind { return KindPattern }

func (p Pattern) Check(label string, v Value) (string, bool) {
	if v.Blank() {
		return "", true
	}
	s := v.Text
	if !p.Untrimmed {
		s = strings.TrimSpace(s)
	}
	if p.Re.MatchString(s) {
		return "", true
	}
	if p.Message != "" {
		return p.Message, false
	}
	return "Invalid " + strings.ToLower(label) + " format", false
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Date requires a YYYY-MM-DD calendar date that is not before the current
// calendar day in Location. Format and past-date failures are exclusive: the
// past-date comparison only runs on a well-formed date. The raw value is
// checked, so surrounding whitespace is a format failure.
type Date struct {
	Now      timeutil.Clock
	Location *time.Location
}

func (Date) Kind() Kind { return KindDate }

func (d Date) Check(label string, v Value) (string, bool) {
	if v.Blank() {
		return "", true
	}
	if !dateRe.MatchString(v.Text) {
		return "Invalid date format", false
	}
	selected, err := timeutil.ParseDate(v.Text, d.Location)
	if err != nil {
		return "Invalid date format", false
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	if selected.Before(timeutil.StartOfDay(now(), d.Location)) {
		return label + " must be today or in the future", false
	}
	return "", true
}

// Enum fails when a non-blank value is not one of Values. Membership is exact,
// untrimmed, and case-sensitive.
type Enum struct {
	Values  []string
	Message string
}

func (Enum) Kind() Kind { return KindEnum }

func (e Enum) Check(label string, v Value) (string, bool) {
	if v.Blank() || slices.Contains(e.Values, v.Text) {
		return "", true
	}
	if e.Message != "" {
		return e.Message, false
	}
	return "Invalid " + strings.ToLower(label), false
}

// EmailPattern accepts local@domain.tld where no part contains whitespace or '@'.
// Whitespace includes the Unicode separators and the BOM.
var EmailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// Email is the pattern rule shared by every email field.
func Email() Pattern {
	return Pattern{Re: EmailPattern, Message: "Invalid email format"}
}
