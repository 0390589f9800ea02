package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nexuscrm/builder/internal/domain/object"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
)

// ListPermissionSets returns copies of every permission set
func (s *SchemaStore) ListPermissionSets() []models.PermissionSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PermissionSet, len(s.schema.PermissionSets))
	for i := range s.schema.PermissionSets {
		out[i] = s.schema.PermissionSets[i].Clone()
	}
	return out
}

// GetPermissionSet returns a copy of the permission set with id
func (s *SchemaStore) GetPermissionSet(id string) (models.PermissionSet, error) {
	var out models.PermissionSet
	err := s.read(func(schema *models.OrgSchema) error {
		ps := schema.FindPermissionSet(id)
		if ps == nil {
			return appErrors.NewNotFoundError("Permission set", id)
		}
		out = ps.Clone()
		return nil
	})
	return out, err
}

// CreatePermissionSet stores a new permission set. Grants are stored as given;
// enforcing them is left to the caller.
func (s *SchemaStore) CreatePermissionSet(ctx context.Context, ps models.PermissionSet) (models.PermissionSet, error) {
	ps = ps.Clone()
	err := s.mutate(ctx, "CreatePermissionSet", func(draft *models.OrgSchema) error {
		ps.ID = s.newID()
		normalizePermissionSet(&ps)
		if err := validatePermissionSet(draft, ps); err != nil {
			return err
		}
		draft.PermissionSets = append(draft.PermissionSets, ps)
		return nil
	})
	if err != nil {
		return models.PermissionSet{}, err
	}
	return ps.Clone(), nil
}

// UpdatePermissionSet replaces the permission set with ps.ID
func (s *SchemaStore) UpdatePermissionSet(ctx context.Context, ps models.PermissionSet) (models.PermissionSet, error) {
	ps = ps.Clone()
	err := s.mutate(ctx, "UpdatePermissionSet", func(draft *models.OrgSchema) error {
		existing := draft.FindPermissionSet(ps.ID)
		if existing == nil {
			return appErrors.NewNotFoundError("Permission set", ps.ID)
		}
		normalizePermissionSet(&ps)
		if err := validatePermissionSet(draft, ps); err != nil {
			return err
		}
		*existing = ps
		return nil
	})
	if err != nil {
		return models.PermissionSet{}, err
	}
	return ps.Clone(), nil
}

// DeletePermissionSet removes a permission set
func (s *SchemaStore) DeletePermissionSet(ctx context.Context, id string) error {
	return s.mutate(ctx, "DeletePermissionSet", func(draft *models.OrgSchema) error {
		for i := range draft.PermissionSets {
			if draft.PermissionSets[i].ID == id {
				draft.PermissionSets = append(draft.PermissionSets[:i], draft.PermissionSets[i+1:]...)
				return nil
			}
		}
		return appErrors.NewNotFoundError("Permission set", id)
	})
}

func normalizePermissionSet(ps *models.PermissionSet) {
	if ps.ObjectPermissions == nil {
		ps.ObjectPermissions = map[string]models.ObjectAccess{}
	}
	if ps.FieldPermissions == nil {
		ps.FieldPermissions = map[string]models.FieldAccess{}
	}
}

// validatePermissionSet checks the name and that every grant names an
// existing object or "object.field"
func validatePermissionSet(schema *models.OrgSchema, ps models.PermissionSet) error {
	if ps.Name == "" {
		return appErrors.NewValidationError("name", "permission set name is required")
	}
	for _, other := range schema.PermissionSets {
		if other.ID != ps.ID && other.Name == ps.Name {
			return appErrors.NewConflictError("Permission set", "name", ps.Name)
		}
	}

	var errs []error
	for apiName := range ps.ObjectPermissions {
		if schema.FindObject(apiName) == nil {
			errs = append(errs, appErrors.NewReasonedValidationError(appErrors.ReasonDanglingFieldReference, apiName,
				fmt.Sprintf("permission set '%s' grants access to unknown object", ps.Name)))
		}
	}
	for key := range ps.FieldPermissions {
		objectAPIName, fieldAPIName, ok := strings.Cut(key, ".")
		if !ok {
			errs = append(errs, appErrors.NewValidationError(key, "field permission keys must be 'object.field'"))
			continue
		}
		obj := schema.FindObject(objectAPIName)
		if obj == nil {
			errs = append(errs, appErrors.NewReasonedValidationError(appErrors.ReasonDanglingFieldReference, key,
				fmt.Sprintf("permission set '%s' grants access to unknown object", ps.Name)))
			continue
		}
		if _, found := object.ResolveField(obj, fieldAPIName); !found {
			errs = append(errs, appErrors.NewReasonedValidationError(appErrors.ReasonDanglingFieldReference, key,
				fmt.Sprintf("permission set '%s' grants access to unknown field", ps.Name)))
		}
	}
	return errors.Join(errs...)
}
