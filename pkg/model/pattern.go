package model

import (
	"time"

	"github.com/dlclark/regexp2"
)

// PatternTimeout bounds a single pattern match.
const PatternTimeout = 100 * time.Millisecond

// CompilePattern compiles a field pattern with ECMAScript semantics, the
// dialect the generated code runs it in. Lookarounds and backreferences
// are accepted.
func CompilePattern(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = PatternTimeout
	return re, nil
}

// ValidPattern reports whether pattern compiles as an ECMAScript regular
// expression.
func ValidPattern(pattern string) bool {
	_, err := CompilePattern(pattern)
	return err == nil
}
