package services

import (
	"context"

	"github.com/nexuscrm/builder/internal/domain/object"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
)

// ObjectChanges carries the mutable header attributes of an object; nil
// members are left unchanged. The apiName is the identity and cannot change.
type ObjectChanges struct {
	Label       *string `json:"label,omitempty"`
	PluralLabel *string `json:"pluralLabel,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ListObjects returns copies of every object in declaration order
func (s *SchemaStore) ListObjects() []models.ObjectDef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ObjectDef, len(s.schema.Objects))
	for i := range s.schema.Objects {
		out[i] = s.schema.Objects[i].Clone()
	}
	return out
}

// GetObject returns a copy of the object with apiName
func (s *SchemaStore) GetObject(apiName string) (models.ObjectDef, error) {
	var out models.ObjectDef
	err := s.read(func(schema *models.OrgSchema) error {
		obj, err := findObject(schema, apiName)
		if err != nil {
			return err
		}
		out = obj.Clone()
		return nil
	})
	return out, err
}

// CreateObject adds a new object. Fields given on input are added one by one
// with the usual field checks; layouts, record types and rules start empty.
func (s *SchemaStore) CreateObject(ctx context.Context, input models.ObjectDef) (models.ObjectDef, error) {
	var created models.ObjectDef
	input = input.Clone()
	err := s.mutate(ctx, "CreateObject", func(draft *models.OrgSchema) error {
		if draft.FindObject(input.APIName) != nil {
			return appErrors.NewDuplicateObjectError(input.APIName)
		}
		now := s.now()
		obj := models.ObjectDef{
			ID:              s.newID(),
			APIName:         input.APIName,
			Label:           input.Label,
			PluralLabel:     input.PluralLabel,
			Description:     input.Description,
			Fields:          []models.FieldDef{},
			RecordTypes:     []models.RecordType{},
			PageLayouts:     []models.PageLayout{},
			ValidationRules: []models.ValidationRule{},
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if obj.PluralLabel == "" {
			obj.PluralLabel = obj.Label
		}
		if err := object.ValidateHeader(&obj); err != nil {
			return err
		}
		for _, f := range input.Fields {
			f.ID = s.newID()
			if err := object.AddField(&obj, f); err != nil {
				return err
			}
		}
		draft.Objects = append(draft.Objects, obj)
		created = obj.Clone()
		return nil
	})
	if err != nil {
		return models.ObjectDef{}, err
	}
	return created, nil
}

// UpdateObject changes an object's header attributes
func (s *SchemaStore) UpdateObject(ctx context.Context, apiName string, changes ObjectChanges) (models.ObjectDef, error) {
	var updated models.ObjectDef
	err := s.mutate(ctx, "UpdateObject", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, apiName)
		if err != nil {
			return err
		}
		if changes.Label != nil {
			obj.Label = *changes.Label
		}
		if changes.PluralLabel != nil {
			obj.PluralLabel = *changes.PluralLabel
		}
		if changes.Description != nil {
			obj.Description = *changes.Description
		}
		if err := object.ValidateHeader(obj); err != nil {
			return err
		}
		s.touch(obj)
		updated = obj.Clone()
		return nil
	})
	return updated, err
}

// PlanDeleteObject reports what deleting the object would break, without changing anything
func (s *SchemaStore) PlanDeleteObject(apiName string) (object.ImpactReport, error) {
	var report object.ImpactReport
	err := s.read(func(schema *models.OrgSchema) error {
		var err error
		report, err = object.PlanObjectRemoval(schema, apiName)
		return err
	})
	return report, err
}

// DeleteObject removes an object. Inbound lookups and permission entries
// block the deletion unless cascade is set; the applied impacts are returned.
func (s *SchemaStore) DeleteObject(ctx context.Context, apiName string, cascade bool) ([]object.Impact, error) {
	var applied []object.Impact
	err := s.mutate(ctx, "DeleteObject", func(draft *models.OrgSchema) error {
		impacts, err := object.RemoveObject(draft, apiName, cascade)
		if err != nil {
			return err
		}
		for _, imp := range impacts {
			if obj := draft.FindObject(imp.Object); obj != nil {
				s.touch(obj)
			}
		}
		applied = impacts
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logImpacts("DeleteObject", applied)
	return applied, nil
}
