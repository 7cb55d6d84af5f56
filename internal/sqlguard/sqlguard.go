// Package sqlguard performs static text analysis of SQL statements for
// select-only mode. It operates on the raw statement text rather than a
// parsed AST so that it behaves identically across database vendors.
package sqlguard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Stable validation errors. Messages are part of the public contract and
// must not change wording.
var (
	ErrEmptyQuery         = errors.New("SQL query cannot be empty")
	ErrCommentsNotAllowed = errors.New("SQL comments not allowed")
	ErrMultipleStatements = errors.New("Multiple statements not allowed")
)

// forbiddenKeywords are statement verbs rejected in select-only mode.
// Only the statement's leading token is matched; these words appearing
// later in a SELECT (string literal, subquery alias) are not checked.
var forbiddenKeywords = []string{
	"drop", "truncate", "delete", "update", "insert", "create",
	"alter", "grant", "revoke", "exec", "execute", "call",
}

var whitespaceRe = regexp.MustCompile(`\s+`)
var trailingTerminatorRe = regexp.MustCompile(`;\s*$`)

// Validator validates SQL statements for select-only mode.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate applies the full select-only rule set in order: empty check,
// comment check, multi-statement check, forbidden leading keyword check.
// The first violated rule wins. Returns nil if the statement passes.
func (v *Validator) Validate(sql string) error {
	if strings.TrimSpace(sql) == "" {
		return ErrEmptyQuery
	}
	if err := v.CheckComments(sql); err != nil {
		return err
	}

	normalized := whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(sql)), " ")

	// One trailing terminator is permitted; any other terminator means
	// a second statement follows.
	if strings.Contains(trailingTerminatorRe.ReplaceAllString(normalized, ""), ";") {
		return ErrMultipleStatements
	}

	for _, keyword := range forbiddenKeywords {
		if strings.HasPrefix(normalized, keyword+" ") || normalized == keyword {
			return fmt.Errorf("Operation not allowed: %s", strings.ToUpper(keyword))
		}
	}
	return nil
}

// CheckComments rejects statements containing a line comment marker (--)
// or a block comment opener (/*) anywhere in the text. This check runs
// even when select-only mode is disabled: comments are the classic
// vehicle for smuggling a second statement past naive filters.
func (v *Validator) CheckComments(sql string) error {
	trimmed := strings.TrimSpace(sql)
	if strings.Contains(trimmed, "--") || strings.Contains(trimmed, "/*") {
		return ErrCommentsNotAllowed
	}
	return nil
}
