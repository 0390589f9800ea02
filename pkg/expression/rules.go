package expression

import (
	"errors"
	"fmt"

	"github.com/nexuscrm/builder/pkg/constants"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
)

// Violation is an active rule whose condition evaluated to true
type Violation struct {
	RuleID   string `json:"ruleId"`
	RuleName string `json:"ruleName"`
	Message  string `json:"message"`
}

// RuleEvaluator evaluates validation rules for record-save collaborators
type RuleEvaluator struct {
	engine *Engine
}

// NewRuleEvaluator creates an evaluator; a nil engine gets a fresh one
func NewRuleEvaluator(engine *Engine) *RuleEvaluator {
	if engine == nil {
		engine = NewEngine()
	}
	return &RuleEvaluator{engine: engine}
}

// Engine returns the underlying expression engine
func (r *RuleEvaluator) Engine() *Engine {
	return r.engine
}

// Validate evaluates every active rule against record. A rule whose condition
// is true blocks the save and is reported as a Violation. Inactive rules are
// skipped. Rules that fail to evaluate are returned as a joined error
// alongside the violations found by the others.
func (r *RuleEvaluator) Validate(rules []models.ValidationRule, record models.Record) ([]Violation, error) {
	env := record.Env()
	var violations []Violation
	var errs []error
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		blocked, err := r.engine.EvaluateBool(rule.Condition, env)
		if err != nil {
			errs = append(errs, appErrors.NewReasonedValidationError(appErrors.ReasonInvalidExpression, rule.Name,
				fmt.Sprintf("rule could not be evaluated: %v", err)))
			continue
		}
		if blocked {
			violations = append(violations, Violation{RuleID: rule.ID, RuleName: rule.Name, Message: rule.ErrorMessage})
		}
	}
	return violations, errors.Join(errs...)
}

// SampleValue is the typed placeholder used when checking a condition at design time
func SampleValue(fieldType constants.SchemaFieldType) interface{} {
	switch fieldType {
	case constants.FieldTypeNumber, constants.FieldTypeCurrency, constants.FieldTypePercent,
		constants.FieldTypeRollupSummary:
		return 0.0
	case constants.FieldTypeCheckbox:
		return false
	case constants.FieldTypeMultiPicklist:
		return []string{}
	case constants.FieldTypeFormula:
		// result type is unknown until evaluated
		return nil
	}
	return ""
}

// SampleEnv builds a design-time environment from field definitions
func SampleEnv(fields []models.FieldDef) map[string]interface{} {
	env := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		env[f.APIName] = SampleValue(f.Type)
	}
	return env
}
