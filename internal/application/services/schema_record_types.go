package services

import (
	"context"

	"github.com/nexuscrm/builder/internal/domain/object"
	"github.com/nexuscrm/builder/pkg/models"
)

// AddRecordType adds a record type. A default record type replaces the
// previous default in the same commit.
func (s *SchemaStore) AddRecordType(ctx context.Context, objectAPIName string, rt models.RecordType) (models.RecordType, error) {
	var added models.RecordType
	err := s.mutate(ctx, "AddRecordType", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, objectAPIName)
		if err != nil {
			return err
		}
		rt.ID = s.newID()
		if err := object.AddRecordType(obj, rt); err != nil {
			return err
		}
		s.touch(obj)
		added = *obj.FindRecordType(rt.ID)
		return nil
	})
	return added, err
}

// UpdateRecordType replaces the record type with rt.ID
func (s *SchemaStore) UpdateRecordType(ctx context.Context, objectAPIName string, rt models.RecordType) (models.RecordType, error) {
	var updated models.RecordType
	err := s.mutate(ctx, "UpdateRecordType", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, objectAPIName)
		if err != nil {
			return err
		}
		if err := object.UpdateRecordType(obj, rt); err != nil {
			return err
		}
		s.touch(obj)
		updated = *obj.FindRecordType(rt.ID)
		return nil
	})
	return updated, err
}

// DeleteRecordType removes a record type
func (s *SchemaStore) DeleteRecordType(ctx context.Context, objectAPIName, id string) error {
	return s.mutate(ctx, "DeleteRecordType", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, objectAPIName)
		if err != nil {
			return err
		}
		if err := object.RemoveRecordType(obj, id); err != nil {
			return err
		}
		s.touch(obj)
		return nil
	})
}

// SetDefaultRecordType makes id the only default record type of the object
func (s *SchemaStore) SetDefaultRecordType(ctx context.Context, objectAPIName, id string) error {
	return s.mutate(ctx, "SetDefaultRecordType", func(draft *models.OrgSchema) error {
		obj, err := findObject(draft, objectAPIName)
		if err != nil {
			return err
		}
		if err := object.SetDefaultRecordType(obj, id); err != nil {
			return err
		}
		s.touch(obj)
		return nil
	})
}
