package services

import (
	"context"

	"github.com/nexuscrm/builder/internal/domain/object"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/expression"
	"github.com/nexuscrm/builder/pkg/models"
)

// AddValidationRule adds a rule to an object
func (s *SchemaStore) AddValidationRule(ctx context.Context, objectAPIName string, rule models.ValidationRule) (models.ValidationRule, error) {
	err := s.mutate(ctx, "AddValidationRule", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, objectAPIName)
		if err != nil {
			return err
		}
		rule.ID = s.newID()
		if err := object.ValidateRule(s.engine, obj, rule); err != nil {
			return err
		}
		obj.ValidationRules = append(obj.ValidationRules, rule)
		s.touch(obj)
		return nil
	})
	if err != nil {
		return models.ValidationRule{}, err
	}
	return rule, nil
}

// UpdateValidationRule replaces the rule with rule.ID
func (s *SchemaStore) UpdateValidationRule(ctx context.Context, objectAPIName string, rule models.ValidationRule) (models.ValidationRule, error) {
	err := s.mutate(ctx, "UpdateValidationRule", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, objectAPIName)
		if err != nil {
			return err
		}
		existing := obj.FindValidationRule(rule.ID)
		if existing == nil {
			return notFoundRule(rule.ID)
		}
		if err := object.ValidateRule(s.engine, obj, rule); err != nil {
			return err
		}
		*existing = rule
		s.touch(obj)
		return nil
	})
	if err != nil {
		return models.ValidationRule{}, err
	}
	return rule, nil
}

// DeleteValidationRule removes a rule
func (s *SchemaStore) DeleteValidationRule(ctx context.Context, objectAPIName, ruleID string) error {
	return s.mutate(ctx, "DeleteValidationRule", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, objectAPIName)
		if err != nil {
			return err
		}
		for i := range obj.ValidationRules {
			if obj.ValidationRules[i].ID == ruleID {
				obj.ValidationRules = append(obj.ValidationRules[:i], obj.ValidationRules[i+1:]...)
				s.touch(obj)
				return nil
			}
		}
		return notFoundRule(ruleID)
	})
}

// SetValidationRuleActive enables or disables a rule. Enabling re-checks the
// condition against the object's current fields.
func (s *SchemaStore) SetValidationRuleActive(ctx context.Context, objectAPIName, ruleID string, active bool) error {
	return s.mutate(ctx, "SetValidationRuleActive", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, objectAPIName)
		if err != nil {
			return err
		}
		if err := object.SetRuleActive(s.engine, obj, ruleID, active); err != nil {
			return err
		}
		s.touch(obj)
		return nil
	})
}

// EvaluateRules runs the object's active rules against a candidate record.
// This is the contract record-save collaborators call before persisting.
func (s *SchemaStore) EvaluateRules(objectAPIName string, record models.Record) ([]expression.Violation, error) {
	var rules []models.ValidationRule
	err := s.read(func(schema *models.OrgSchema) error {
		obj, err := findObject(schema, objectAPIName)
		if err != nil {
			return err
		}
		rules = object.ActiveRules(obj)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.rules.Validate(rules, record)
}

func notFoundRule(ruleID string) error {
	return appErrors.NewNotFoundError("Validation rule", ruleID)
}
