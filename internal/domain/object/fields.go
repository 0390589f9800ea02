package object

import (
	"errors"
	"fmt"

	"github.com/nexuscrm/builder/pkg/constants"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/fieldtypes"
	"github.com/nexuscrm/builder/pkg/models"
)

// PrepareField applies type defaults and validates field against obj without
// adding it. Duplicates and system names are rejected.
func PrepareField(obj *models.ObjectDef, field *models.FieldDef) error {
	if constants.IsSystemField(field.APIName) {
		return appErrors.NewDuplicateFieldError(obj.APIName, field.APIName)
	}
	if obj.FindField(field.APIName) != nil {
		return appErrors.NewDuplicateFieldError(obj.APIName, field.APIName)
	}
	field.IsSystem = false
	fieldtypes.ApplyDefaults(field)
	if err := fieldtypes.ValidateField(*field); err != nil {
		return err
	}
	return ValidateFieldInContext(obj, *field)
}

// AddField validates field and appends it to obj
func AddField(obj *models.ObjectDef, field models.FieldDef) error {
	if err := PrepareField(obj, &field); err != nil {
		return err
	}
	obj.Fields = append(obj.Fields, field)
	return nil
}

// ReplaceField swaps the stored definition of field.APIName for field. The
// stored id is kept; apiName is the identity and cannot change.
func ReplaceField(obj *models.ObjectDef, field models.FieldDef) error {
	if constants.IsSystemField(field.APIName) {
		return appErrors.NewReasonedValidationError(appErrors.ReasonSystemField, field.APIName, "system fields cannot be modified")
	}
	existing := obj.FindField(field.APIName)
	if existing == nil {
		return appErrors.NewNotFoundError("Field", obj.APIName+"."+field.APIName)
	}
	field.ID = existing.ID
	field.IsSystem = false
	fieldtypes.ApplyDefaults(&field)
	if err := fieldtypes.ValidateField(field); err != nil {
		return err
	}
	if err := ValidateFieldInContext(obj, field); err != nil {
		return err
	}
	*existing = field
	return nil
}

// ValidateFieldInContext checks the parts of a field that depend on its object:
// the controlling field and its dependent values, and visibility conditions.
func ValidateFieldInContext(obj *models.ObjectDef, field models.FieldDef) error {
	var errs []error

	if field.ControllingField != "" {
		ctrl := obj.FindField(field.ControllingField)
		switch {
		case ctrl == nil:
			errs = append(errs, appErrors.NewReasonedValidationError(appErrors.ReasonDanglingFieldReference, field.APIName,
				fmt.Sprintf("controlling field '%s' does not exist", field.ControllingField)))
		case ctrl.Type != constants.FieldTypePicklist && ctrl.Type != constants.FieldTypeCheckbox:
			errs = append(errs, appErrors.NewValidationError(field.APIName,
				fmt.Sprintf("controlling field '%s' must be a picklist or checkbox", ctrl.APIName)))
		default:
			errs = append(errs, validateDependentValues(*ctrl, field)...)
		}
	}

	if conditionsReference(field.VisibleIf, field.APIName) {
		errs = append(errs, appErrors.NewValidationError(field.APIName, "visibility conditions cannot reference the field itself"))
	}
	if err := ValidateConditions(obj, field.VisibleIf, "field:"+field.APIName); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateDependentValues(ctrl, field models.FieldDef) []error {
	var errs []error
	allowedKeys := ctrl.PicklistValues
	if ctrl.Type == constants.FieldTypeCheckbox {
		allowedKeys = []string{"true", "false"}
	}
	for key, values := range field.DependentValues {
		if !contains(allowedKeys, key) {
			errs = append(errs, appErrors.NewValidationError(field.APIName,
				fmt.Sprintf("dependentValues key '%s' is not a value of '%s'", key, ctrl.APIName)))
		}
		if len(field.PicklistValues) == 0 {
			continue
		}
		for _, v := range values {
			if !contains(field.PicklistValues, v) {
				errs = append(errs, appErrors.NewValidationError(field.APIName,
					fmt.Sprintf("dependent value '%s' is not a picklist value", v)))
			}
		}
	}
	return errs
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func fieldIndex(obj *models.ObjectDef, apiName string) int {
	for i := range obj.Fields {
		if obj.Fields[i].APIName == apiName {
			return i
		}
	}
	return -1
}
