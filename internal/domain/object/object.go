// Package object holds the aggregate invariants of an ObjectDef: field
// uniqueness, dependent and visibility references, record-type defaults,
// rule conditions, and the reference analysis behind cascading deletes.
package object

import (
	"errors"
	"fmt"

	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/expression"
	"github.com/nexuscrm/builder/pkg/fieldtypes"
	"github.com/nexuscrm/builder/pkg/models"
)

// ValidateHeader checks the object's own attributes
func ValidateHeader(obj *models.ObjectDef) error {
	if err := fieldtypes.ValidateAPIName(obj.APIName); err != nil {
		return err
	}
	if obj.Label == "" {
		return appErrors.NewValidationError("label", "object label is required")
	}
	if obj.PluralLabel == "" {
		return appErrors.NewValidationError("pluralLabel", "object plural label is required")
	}
	return nil
}

// Validate checks every object-level invariant except layouts, which the
// layout package validates.
func Validate(engine *expression.Engine, obj *models.ObjectDef) error {
	var errs []error
	if err := ValidateHeader(obj); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]struct{}, len(obj.Fields))
	for _, f := range obj.Fields {
		if _, dup := seen[f.APIName]; dup {
			errs = append(errs, appErrors.NewDuplicateFieldError(obj.APIName, f.APIName))
			continue
		}
		seen[f.APIName] = struct{}{}
		if err := fieldtypes.ValidateField(f); err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", obj.APIName, f.APIName, err))
			continue
		}
		if err := ValidateFieldInContext(obj, f); err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", obj.APIName, f.APIName, err))
		}
	}

	if err := ValidateRecordTypes(obj); err != nil {
		errs = append(errs, err)
	}
	for _, rule := range obj.ValidationRules {
		if err := ValidateRule(engine, obj, rule); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateLookups checks that lookup targets exist in schema
func ValidateLookups(schema *models.OrgSchema, obj *models.ObjectDef) error {
	var errs []error
	for _, f := range obj.Fields {
		if isLookup(f) && f.LookupObject != "" && schema.FindObject(f.LookupObject) == nil {
			errs = append(errs, appErrors.NewReasonedValidationError(appErrors.ReasonDanglingFieldReference, f.APIName,
				fmt.Sprintf("lookup target object '%s' does not exist", f.LookupObject)))
		}
	}
	return errors.Join(errs...)
}
