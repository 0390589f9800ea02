// Package visibility evaluates visibleIf condition lists against a record.
// Evaluation is pure: no state, no I/O, safe for concurrent use.
package visibility

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nexuscrm/builder/pkg/constants"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
)

// ErrUnknownOperator is wrapped by the error returned for an unsupported operator
var ErrUnknownOperator = errors.New("unknown operator")

type unknownOperatorError struct {
	op models.Operator
}

func (e *unknownOperatorError) Error() string {
	return fmt.Sprintf("unknown visibility operator '%s'", e.op)
}

func (e *unknownOperatorError) Unwrap() error  { return ErrUnknownOperator }
func (e *unknownOperatorError) Reason() string { return appErrors.ReasonUnknownOperator }

// Evaluate returns true when every condition holds for record. An empty list
// is always true. Conditions are AND-combined; there is no OR. An unknown
// operator makes the whole evaluation fail with ErrUnknownOperator.
func Evaluate(conditions []models.ConditionExpr, record models.Record) (bool, error) {
	for _, cond := range conditions {
		ok, err := EvaluateCondition(cond, record)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Visible is Evaluate for renderers: an evaluation error hides the element
func Visible(conditions []models.ConditionExpr, record models.Record) bool {
	ok, err := Evaluate(conditions, record)
	return err == nil && ok
}

// EvaluateCondition evaluates a single condition
func EvaluateCondition(cond models.ConditionExpr, record models.Record) (bool, error) {
	left := record.Get(cond.Left)
	right := cond.Right

	switch cond.Op {
	case constants.OpEquals:
		return left.Equal(right), nil
	case constants.OpNotEquals:
		return !left.Equal(right), nil
	case constants.OpGreater:
		// NaN compares false for every ordering, which is the intended result
		return left.ToNumber() > right.ToNumber(), nil
	case constants.OpLess:
		return left.ToNumber() < right.ToNumber(), nil
	case constants.OpGreaterEq:
		return left.ToNumber() >= right.ToNumber(), nil
	case constants.OpLessEq:
		return left.ToNumber() <= right.ToNumber(), nil
	case constants.OpIn:
		items, ok := right.AsTextArray()
		if !ok {
			return false, nil
		}
		s, ok := left.AsText()
		if !ok {
			return false, nil
		}
		return contains(items, s), nil
	case constants.OpIncludes:
		have, ok := left.AsTextArray()
		if !ok {
			return false, nil
		}
		want, ok := right.AsTextArray()
		if !ok {
			return false, nil
		}
		for _, h := range have {
			if contains(want, h) {
				return true, nil
			}
		}
		return false, nil
	case constants.OpContains:
		s, ok := left.AsText()
		if !ok {
			return false, nil
		}
		sub, ok := right.AsText()
		if !ok {
			return false, nil
		}
		return strings.Contains(s, sub), nil
	case constants.OpStartsWith:
		s, ok := left.AsText()
		if !ok {
			return false, nil
		}
		prefix, ok := right.AsText()
		if !ok {
			return false, nil
		}
		return strings.HasPrefix(s, prefix), nil
	}
	return false, &unknownOperatorError{op: cond.Op}
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
