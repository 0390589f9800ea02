package services

import (
	"context"

	"github.com/nexuscrm/builder/internal/domain/object"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/fieldtypes"
	"github.com/nexuscrm/builder/pkg/models"
)

// ListFields returns the object's fields; includeSystem prepends the
// implicit system fields
func (s *SchemaStore) ListFields(objectAPIName string, includeSystem bool) ([]models.FieldDef, error) {
	var out []models.FieldDef
	err := s.read(func(schema *models.OrgSchema) error {
		obj, err := findObject(schema, objectAPIName)
		if err != nil {
			return err
		}
		var fields []models.FieldDef
		if includeSystem {
			fields = object.AllFields(obj)
		} else {
			fields = object.CustomFields(obj)
		}
		out = make([]models.FieldDef, len(fields))
		for i := range fields {
			out[i] = fields[i].Clone()
		}
		return nil
	})
	return out, err
}

// GetField resolves a field by apiName, system fields included
func (s *SchemaStore) GetField(objectAPIName, fieldAPIName string) (models.FieldDef, error) {
	var out models.FieldDef
	err := s.read(func(schema *models.OrgSchema) error {
		obj, err := findObject(schema, objectAPIName)
		if err != nil {
			return err
		}
		f, ok := object.ResolveField(obj, fieldAPIName)
		if !ok {
			return notFoundField(objectAPIName, fieldAPIName)
		}
		out = f.Clone()
		return nil
	})
	return out, err
}

// AddField adds a custom field. An empty apiName is derived from the label.
func (s *SchemaStore) AddField(ctx context.Context, objectAPIName string, field models.FieldDef) (models.FieldDef, error) {
	var added models.FieldDef
	field = field.Clone()
	err := s.mutate(ctx, "AddField", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, objectAPIName)
		if err != nil {
			return err
		}
		if field.APIName == "" {
			field.APIName = fieldtypes.DeriveAPIName(obj.APIName, field.Label, false)
		}
		field.ID = s.newID()
		if err := object.AddField(obj, field); err != nil {
			return err
		}
		s.touch(obj)
		added = obj.Fields[len(obj.Fields)-1].Clone()
		return nil
	})
	return added, err
}

// UpdateField replaces the definition of an existing custom field
func (s *SchemaStore) UpdateField(ctx context.Context, objectAPIName string, field models.FieldDef) (models.FieldDef, error) {
	var updated models.FieldDef
	field = field.Clone()
	err := s.mutate(ctx, "UpdateField", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, objectAPIName)
		if err != nil {
			return err
		}
		if err := object.ReplaceField(obj, field); err != nil {
			return err
		}
		s.touch(obj)
		updated = obj.FindField(field.APIName).Clone()
		return nil
	})
	return updated, err
}

// PlanDeleteField reports what deleting the field would break, without changing anything
func (s *SchemaStore) PlanDeleteField(objectAPIName, fieldAPIName string) (object.ImpactReport, error) {
	var report object.ImpactReport
	err := s.read(func(schema *models.OrgSchema) error {
		var err error
		report, err = object.PlanFieldRemoval(schema, objectAPIName, fieldAPIName)
		return err
	})
	return report, err
}

// DeleteField removes a custom field. References block the deletion unless
// cascade is set, in which case they are stripped (rules are disabled) and
// returned as warnings.
func (s *SchemaStore) DeleteField(ctx context.Context, objectAPIName, fieldAPIName string, cascade bool) ([]object.Impact, error) {
	var applied []object.Impact
	err := s.mutate(ctx, "DeleteField", func(draft *models.OrgSchema) error {
		impacts, err := object.RemoveField(draft, objectAPIName, fieldAPIName, cascade)
		if err != nil {
			return err
		}
		s.touch(draft.FindObject(objectAPIName))
		applied = impacts
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logImpacts("DeleteField", applied)
	return applied, nil
}

func notFoundField(objectAPIName, fieldAPIName string) error {
	return appErrors.NewNotFoundError("Field", object.FieldPermissionKey(objectAPIName, fieldAPIName))
}
