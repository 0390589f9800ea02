package object

import (
	"fmt"

	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/expression"
	"github.com/nexuscrm/builder/pkg/models"
)

// ValidateRule checks a validation rule against obj. Active rules are compiled
// against a sample record of the object's fields; inactive rules only need to parse.
func ValidateRule(engine *expression.Engine, obj *models.ObjectDef, rule models.ValidationRule) error {
	if rule.Name == "" {
		return appErrors.NewValidationError("name", "validation rule name is required")
	}
	for _, other := range obj.ValidationRules {
		if other.ID != rule.ID && other.Name == rule.Name {
			return appErrors.NewConflictError("Validation rule", "name", rule.Name)
		}
	}
	if rule.ErrorMessage == "" {
		return appErrors.NewValidationError(rule.Name, "errorMessage is required")
	}
	if err := expression.CheckSyntax(rule.Condition); err != nil {
		return appErrors.NewReasonedValidationError(appErrors.ReasonInvalidExpression, rule.Name, err.Error())
	}
	if !rule.Active {
		return nil
	}
	if err := engine.ValidateCondition(rule.Condition, expression.SampleEnv(AllFields(obj))); err != nil {
		return appErrors.NewReasonedValidationError(appErrors.ReasonInvalidExpression, rule.Name,
			fmt.Sprintf("condition does not compile against '%s': %v", obj.APIName, err))
	}
	return nil
}

// SetRuleActive toggles a rule; enabling re-checks its condition
func SetRuleActive(engine *expression.Engine, obj *models.ObjectDef, ruleID string, active bool) error {
	rule := obj.FindValidationRule(ruleID)
	if rule == nil {
		return appErrors.NewNotFoundError("Validation rule", ruleID)
	}
	if active {
		candidate := *rule
		candidate.Active = true
		if err := ValidateRule(engine, obj, candidate); err != nil {
			return err
		}
	}
	rule.Active = active
	return nil
}

// ActiveRules returns the rules record-save collaborators must evaluate
func ActiveRules(obj *models.ObjectDef) []models.ValidationRule {
	var out []models.ValidationRule
	for _, r := range obj.ValidationRules {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}
