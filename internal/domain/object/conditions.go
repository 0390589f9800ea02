package object

import (
	"errors"
	"fmt"
	"math"

	"github.com/nexuscrm/builder/pkg/constants"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
)

// ValidateConditions checks that every condition uses a known operator and
// names a field that resolves on obj. path locates the owner in messages.
func ValidateConditions(obj *models.ObjectDef, conds []models.ConditionExpr, path string) error {
	var errs []error
	for i, c := range conds {
		if !constants.IsKnownOperator(c.Op) {
			errs = append(errs, appErrors.NewReasonedValidationError(appErrors.ReasonUnknownOperator, c.Left,
				fmt.Sprintf("condition %d uses unknown operator '%s'", i, c.Op)).WithPath(path))
			continue
		}
		if _, ok := ResolveField(obj, c.Left); !ok {
			errs = append(errs, appErrors.NewReasonedValidationError(appErrors.ReasonDanglingFieldReference, c.Left,
				fmt.Sprintf("condition %d references unknown field '%s'", i, c.Left)).WithPath(path))
			continue
		}
		switch c.Op {
		case constants.OpIn, constants.OpIncludes:
			if c.Right.Kind() != models.KindTextArray {
				errs = append(errs, appErrors.NewValidationError(c.Left,
					fmt.Sprintf("condition %d: operator %s needs a list on the right", i, c.Op)).WithPath(path))
			}
		case constants.OpContains, constants.OpStartsWith:
			if c.Right.Kind() != models.KindText {
				errs = append(errs, appErrors.NewValidationError(c.Left,
					fmt.Sprintf("condition %d: operator %s needs text on the right", i, c.Op)).WithPath(path))
			}
		case constants.OpGreater, constants.OpLess, constants.OpGreaterEq, constants.OpLessEq:
			if math.IsNaN(c.Right.ToNumber()) {
				errs = append(errs, appErrors.NewValidationError(c.Left,
					fmt.Sprintf("condition %d: operator %s needs a number on the right", i, c.Op)).WithPath(path))
			}
		}
	}
	return errors.Join(errs...)
}

// conditionsReference reports whether any condition names apiName
func conditionsReference(conds []models.ConditionExpr, apiName string) bool {
	for _, c := range conds {
		if c.Left == apiName {
			return true
		}
	}
	return false
}

// withoutReferences drops the conditions naming apiName
func withoutReferences(conds []models.ConditionExpr, apiName string) []models.ConditionExpr {
	out := conds[:0:0]
	for _, c := range conds {
		if c.Left != apiName {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
