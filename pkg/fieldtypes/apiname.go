package fieldtypes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nexuscrm/builder/pkg/constants"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
)

var (
	apiNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	labelStrip     = regexp.MustCompile(`[^A-Za-z0-9\s]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// IsValidAPIName reports whether name is a legal object or field API name
func IsValidAPIName(name string) bool {
	return len(name) <= constants.MaxAPINameLength && apiNamePattern.MatchString(name)
}

// ValidateAPIName returns an INVALID_API_NAME error when name is not legal
func ValidateAPIName(name string) error {
	if name == "" {
		return appErrors.NewReasonedValidationError(appErrors.ReasonInvalidAPIName, "apiName", "apiName is required")
	}
	if len(name) > constants.MaxAPINameLength {
		return appErrors.NewReasonedValidationError(appErrors.ReasonInvalidAPIName, name,
			fmt.Sprintf("apiName must be at most %d characters", constants.MaxAPINameLength))
	}
	if !apiNamePattern.MatchString(name) {
		return appErrors.NewReasonedValidationError(appErrors.ReasonInvalidAPIName, name,
			"apiName must start with a letter or underscore and contain only letters, digits and underscores")
	}
	return nil
}

// Slugify turns a label into the lowercase identifier part of an API name
func Slugify(label string) string {
	slug := labelStrip.ReplaceAllString(label, "")
	slug = strings.TrimSpace(slug)
	slug = whitespaceRun.ReplaceAllString(slug, "_")
	slug = strings.ToLower(slug)
	if slug == "" {
		slug = "field"
	}
	if slug[0] >= '0' && slug[0] <= '9' {
		slug = "_" + slug
	}
	return slug
}

// DeriveAPIName builds a field API name from its label. Custom fields are
// namespaced as "{object}__{slug}"; system fields keep the bare slug. Only the
// slug is shortened to fit the length limit. When the object name leaves no
// room for a slug the full name is returned and fails ValidateAPIName.
func DeriveAPIName(objectAPIName, label string, system bool) string {
	slug := Slugify(label)
	if system || objectAPIName == "" {
		if len(slug) > constants.MaxAPINameLength {
			slug = slug[:constants.MaxAPINameLength]
		}
		return slug
	}
	prefix := objectAPIName + constants.CustomFieldSeparator
	if room := constants.MaxAPINameLength - len(prefix); room > 0 && len(slug) > room {
		slug = slug[:room]
	}
	return prefix + slug
}
