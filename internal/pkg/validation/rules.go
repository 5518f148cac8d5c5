package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Course codes such as "cs101" or "ee-201"
	CourseIDPattern = `^[a-z0-9][a-z0-9_-]{1,63}$`

	// Theme client ids are opaque browser identifiers
	ClientIDPattern = `^[A-Za-z0-9_-]{4,64}$`

	// Session node ids and document ids
	ResourceIDPattern = `^[A-Za-z0-9-]{1,64}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	CourseID   *regexp.Regexp
	ClientID   *regexp.Regexp
	ResourceID *regexp.Regexp
}{
	CourseID:   regexp.MustCompile(CourseIDPattern),
	ClientID:   regexp.MustCompile(ClientIDPattern),
	ResourceID: regexp.MustCompile(ResourceIDPattern),
}

// StringValidation checks a single string value, typically a path parameter
type StringValidation struct {
	Value    string
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new required string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// RegisterRules adds the custom tags used by request DTOs
func RegisterRules(v *validator.Validate) error {
	return v.RegisterValidation("courseid", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.CourseID.MatchString(fl.Field().String())
	})
}
