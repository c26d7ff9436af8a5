package form

import (
	"slices"
	"strings"
)

// Field declares one submitted field: its wire name, the label used in messages,
// and the rules applied to it in order.
type Field struct {
	Name  string
	Label string
	Rules []Rule
}

// Schema is an ordered list of fields. Errors are reported in declaration order.
type Schema []Field

// Result is the outcome of validating one submission.
type Result struct {
	Errors []string
}

// IsValid reports whether no rule was violated.
func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.IsValid() {
		return nil
	}
	return &ValidationError{Messages: slices.Clone(r.Errors)}
}

// ValidationError carries every violated rule message in field order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Values holds the string-typed fields of a submission. Fields that were absent,
// null, or not strings are missing.
type Values map[string]string

// Validate runs every field's rules against raw and collects all violations.
// Within one field the first failing rule wins, so a blank email reports only
// that it is required. Validate has no side effects.
func (s Schema) Validate(raw map[string]any) Result {
	_, res := s.Parse(raw)
	return res
}

// Parse narrows raw to string values and validates them.
func (s Schema) Parse(raw map[string]any) (Values, Result) {
	values := make(Values, len(s))
	var errs []string
	for _, f := range s {
		v := lookup(raw, f.Name)
		if v.OK {
			values[f.Name] = v.Text
		}
		for _, rule := range f.Rules {
			if msg, ok := rule.Check(f.Label, v); !ok {
				errs = append(errs, msg)
				break
			}
		}
	}
	return values, Result{Errors: errs}
}

func lookup(raw map[string]any, name string) Value {
	s, ok := raw[name].(string)
	return Value{Text: s, OK: ok}
}

// Text returns the trimmed value of name.
func (v Values) Text(name string) string {
	return strings.TrimSpace(v[name])
}

// Email returns the trimmed, lower-cased value of name.
func (v Values) Email(name string) string {
	return strings.ToLower(v.Text(name))
}

// Optional returns the trimmed value of name, or nil when it is missing or blank,
// so "not provided" stays distinct from any provided text.
func (v Values) Optional(name string) *string {
	s := v.Text(name)
	if s == "" {
		return nil
	}
	return &s
}
