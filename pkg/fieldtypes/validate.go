package fieldtypes

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/nexuscrm/builder/pkg/constants"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/expression"
	"github.com/nexuscrm/builder/pkg/models"
)

// Numeric placeholder of an auto-number display format, e.g. "INV-{0000}"
var displayFormatPlaceholder = regexp.MustCompile(`\{0+\}`)

// MaxPrecision is the largest supported numeric precision
const MaxPrecision = 18

func intPtr(v int) *int { return &v }

// ApplyDefaults fills in the type-specific constraint defaults that were left unset
func ApplyDefaults(field *models.FieldDef) {
	def, ok := GetRegistry().Get(string(field.Type))
	if !ok {
		return
	}
	if def.DefaultMaxLength > 0 && field.MaxLength == nil {
		field.MaxLength = intPtr(def.DefaultMaxLength)
	}
	if def.Category == CategoryNumeric {
		if field.Precision == nil {
			field.Precision = intPtr(def.DefaultPrecision)
		}
		if field.Scale == nil {
			field.Scale = intPtr(def.DefaultScale)
		}
	}
	if def.IsVirtual {
		field.ReadOnly = true
	}
}

// ValidateField checks one field in isolation. Every problem found is
// returned, combined with errors.Join.
func ValidateField(field models.FieldDef) error {
	var errs []error
	add := func(err error) { errs = append(errs, err) }

	if err := ValidateAPIName(field.APIName); err != nil {
		add(err)
	}
	if field.Label == "" {
		add(appErrors.NewValidationError(field.APIName, "label is required"))
	}

	reg := GetRegistry()
	def, ok := reg.Get(string(field.Type))
	if !ok {
		add(appErrors.NewValidationError(field.APIName, fmt.Sprintf("unknown field type '%s'", field.Type)))
		return errors.Join(errs...)
	}
	if def.IsSystemOnly {
		add(appErrors.NewReasonedValidationError(appErrors.ReasonSystemField, field.APIName,
			fmt.Sprintf("field type '%s' is reserved for system fields", field.Type)))
	}

	if def.RequiresPicklist {
		if len(field.PicklistValues) == 0 {
			add(appErrors.NewMissingConstraintError(field.APIName, "picklistValues"))
		} else if dup := firstDuplicate(field.PicklistValues); dup != "" {
			add(appErrors.NewValidationError(field.APIName, fmt.Sprintf("picklist value '%s' is duplicated", dup)))
		}
	}
	if def.RequiresLookup && field.LookupObject == "" {
		add(appErrors.NewMissingConstraintError(field.APIName, "lookupObject"))
	}
	if def.RequiresFormula {
		if field.FormulaExpr == "" {
			add(appErrors.NewMissingConstraintError(field.APIName, "formulaExpr"))
		} else if err := expression.CheckSyntax(field.FormulaExpr); err != nil {
			add(appErrors.NewReasonedValidationError(appErrors.ReasonInvalidExpression, field.APIName, err.Error()))
		}
	}
	if def.RequiresDisplayFormat {
		switch {
		case field.DisplayFormat == "":
			add(appErrors.NewMissingConstraintError(field.APIName, "displayFormat"))
		case !displayFormatPlaceholder.MatchString(field.DisplayFormat):
			add(appErrors.NewValidationError(field.APIName, "displayFormat must contain a numeric placeholder such as {0000}"))
		}
		switch {
		case field.StartingNumber == nil:
			add(appErrors.NewMissingConstraintError(field.APIName, "startingNumber"))
		case *field.StartingNumber < 1:
			add(appErrors.NewValidationError(field.APIName, "startingNumber must be at least 1"))
		}
	}

	errs = append(errs, validateLengths(field, def)...)
	errs = append(errs, validateNumeric(field, def)...)

	if len(field.DependentValues) > 0 && field.ControllingField == "" {
		add(appErrors.NewValidationError(field.APIName, "dependentValues require a controllingField"))
	}
	if field.ControllingField == field.APIName && field.APIName != "" {
		add(appErrors.NewValidationError(field.APIName, "a field cannot control itself"))
	}
	if field.DefaultValue != nil {
		if err := validateDefault(field, def); err != nil {
			add(err)
		}
	}
	for _, cond := range field.VisibleIf {
		if !constants.IsKnownOperator(cond.Op) {
			add(appErrors.NewReasonedValidationError(appErrors.ReasonUnknownOperator, field.APIName,
				fmt.Sprintf("unknown visibility operator '%s'", cond.Op)))
		}
	}

	return errors.Join(errs...)
}

func validateLengths(field models.FieldDef, def FieldTypeDefinition) []error {
	var errs []error
	if field.MaxLength != nil {
		switch {
		case *field.MaxLength < 1:
			errs = append(errs, appErrors.NewValidationError(field.APIName, "maxLength must be positive"))
		case def.MaxLengthCap > 0 && *field.MaxLength > def.MaxLengthCap:
			errs = append(errs, appErrors.NewValidationError(field.APIName,
				fmt.Sprintf("maxLength %d exceeds the %s limit of %d", *field.MaxLength, field.Type, def.MaxLengthCap)))
		}
	}
	if field.MinLength != nil {
		if *field.MinLength < 0 {
			errs = append(errs, appErrors.NewValidationError(field.APIName, "minLength must not be negative"))
		} else if field.MaxLength != nil && *field.MinLength > *field.MaxLength {
			errs = append(errs, appErrors.NewValidationError(field.APIName, "minLength must not exceed maxLength"))
		}
	}
	return errs
}

func validateNumeric(field models.FieldDef, def FieldTypeDefinition) []error {
	var errs []error
	if field.Precision != nil && (*field.Precision < 1 || *field.Precision > MaxPrecision) {
		errs = append(errs, appErrors.NewValidationError(field.APIName,
			fmt.Sprintf("precision must be between 1 and %d", MaxPrecision)))
	}
	if field.Scale != nil {
		if *field.Scale < 0 {
			errs = append(errs, appErrors.NewValidationError(field.APIName, "scale must not be negative"))
		} else if field.Precision != nil && *field.Scale > *field.Precision {
			errs = append(errs, appErrors.NewValidationError(field.APIName, "scale must not exceed precision"))
		}
	}
	if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
		errs = append(errs, appErrors.NewValidationError(field.APIName, "min must not exceed max"))
	}
	if (field.Min != nil || field.Max != nil) && def.Category != CategoryNumeric {
		errs = append(errs, appErrors.NewValidationError(field.APIName,
			fmt.Sprintf("min/max only apply to numeric fields, not %s", field.Type)))
	}
	return errs
}

func validateDefault(field models.FieldDef, def FieldTypeDefinition) error {
	v := *field.DefaultValue
	if v.IsNull() {
		return nil
	}
	mismatch := func(want string) error {
		return appErrors.NewValidationError(field.APIName,
			fmt.Sprintf("defaultValue must be %s for %s fields, got %s", want, field.Type, v.Kind()))
	}
	switch {
	case field.Type == constants.FieldTypeCheckbox:
		if v.Kind() != models.KindBool {
			return mismatch("a boolean")
		}
	case def.Category == CategoryNumeric:
		n, ok := v.AsNumber()
		if !ok {
			return mismatch("a number")
		}
		if (field.Min != nil && n < *field.Min) || (field.Max != nil && n > *field.Max) {
			return appErrors.NewValidationError(field.APIName, "defaultValue is outside min/max")
		}
	case field.Type == constants.FieldTypePicklist:
		s, ok := v.AsText()
		if !ok {
			return mismatch("text")
		}
		if !contains(field.PicklistValues, s) {
			return appErrors.NewValidationError(field.APIName, fmt.Sprintf("defaultValue '%s' is not a picklist value", s))
		}
	case field.Type == constants.FieldTypeMultiPicklist:
		items, ok := v.AsTextArray()
		if !ok {
			return mismatch("a list of text")
		}
		for _, item := range items {
			if !contains(field.PicklistValues, item) {
				return appErrors.NewValidationError(field.APIName, fmt.Sprintf("defaultValue '%s' is not a picklist value", item))
			}
		}
	case def.Category == CategoryText:
		s, ok := v.AsText()
		if !ok {
			return mismatch("text")
		}
		if field.MaxLength != nil && len(s) > *field.MaxLength {
			return appErrors.NewValidationError(field.APIName, "defaultValue exceeds maxLength")
		}
	case def.IsVirtual:
		return appErrors.NewValidationError(field.APIName, fmt.Sprintf("%s fields cannot have a defaultValue", field.Type))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func firstDuplicate(list []string) string {
	seen := make(map[string]struct{}, len(list))
	for _, item := range list {
		if _, ok := seen[item]; ok {
			return item
		}
		seen[item] = struct{}{}
	}
	return ""
}
