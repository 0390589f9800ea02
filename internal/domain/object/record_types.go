package object

import (
	"errors"
	"fmt"

	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
)

// AddRecordType appends rt to obj. A default record type takes the default
// flag from the previous one.
func AddRecordType(obj *models.ObjectDef, rt models.RecordType) error {
	if err := validateRecordType(obj, rt); err != nil {
		return err
	}
	wantDefault := rt.Default
	rt.Default = false
	obj.RecordTypes = append(obj.RecordTypes, rt)
	if wantDefault {
		return SetDefaultRecordType(obj, rt.ID)
	}
	return nil
}

// UpdateRecordType replaces the record type with rt.ID
func UpdateRecordType(obj *models.ObjectDef, rt models.RecordType) error {
	existing := obj.FindRecordType(rt.ID)
	if existing == nil {
		return appErrors.NewNotFoundError("Record type", rt.ID)
	}
	if err := validateRecordType(obj, rt); err != nil {
		return err
	}
	wasDefault := existing.Default
	wantDefault := rt.Default
	rt.Default = wasDefault
	*existing = rt
	switch {
	case wantDefault && !wasDefault:
		return SetDefaultRecordType(obj, rt.ID)
	case !wantDefault && wasDefault:
		existing.Default = false
		obj.DefaultRecordTypeID = ""
	}
	return nil
}

// RemoveRecordType deletes the record type with id
func RemoveRecordType(obj *models.ObjectDef, id string) error {
	for i := range obj.RecordTypes {
		if obj.RecordTypes[i].ID != id {
			continue
		}
		obj.RecordTypes = append(obj.RecordTypes[:i], obj.RecordTypes[i+1:]...)
		if obj.DefaultRecordTypeID == id {
			obj.DefaultRecordTypeID = ""
		}
		return nil
	}
	return appErrors.NewNotFoundError("Record type", id)
}

// SetDefaultRecordType makes id the only default record type of obj
func SetDefaultRecordType(obj *models.ObjectDef, id string) error {
	if obj.FindRecordType(id) == nil {
		return appErrors.NewNotFoundError("Record type", id)
	}
	for i := range obj.RecordTypes {
		obj.RecordTypes[i].Default = obj.RecordTypes[i].ID == id
	}
	obj.DefaultRecordTypeID = id
	return nil
}

// DefaultRecordType returns the record type flagged as default, or nil
func DefaultRecordType(obj *models.ObjectDef) *models.RecordType {
	for i := range obj.RecordTypes {
		if obj.RecordTypes[i].Default {
			return &obj.RecordTypes[i]
		}
	}
	return nil
}

// RecordTypesUsingLayout returns the names of record types selecting layoutID
func RecordTypesUsingLayout(obj *models.ObjectDef, layoutID string) []string {
	var out []string
	for _, rt := range obj.RecordTypes {
		if rt.PageLayoutID == layoutID {
			out = append(out, rt.Name)
		}
	}
	return out
}

func validateRecordType(obj *models.ObjectDef, rt models.RecordType) error {
	if rt.Name == "" {
		return appErrors.NewValidationError("name", "record type name is required")
	}
	for _, other := range obj.RecordTypes {
		if other.ID != rt.ID && other.Name == rt.Name {
			return appErrors.NewConflictError("Record type", "name", rt.Name)
		}
	}
	if rt.PageLayoutID != "" && obj.FindLayout(rt.PageLayoutID) == nil {
		return appErrors.NewValidationError("pageLayoutId",
			fmt.Sprintf("page layout '%s' does not belong to object '%s'", rt.PageLayoutID, obj.APIName))
	}
	return nil
}

// ValidateRecordTypes checks the record-type invariants of obj
func ValidateRecordTypes(obj *models.ObjectDef) error {
	var errs []error
	defaults := 0
	names := make(map[string]struct{}, len(obj.RecordTypes))
	for _, rt := range obj.RecordTypes {
		if rt.Default {
			defaults++
		}
		if _, dup := names[rt.Name]; dup {
			errs = append(errs, appErrors.NewConflictError("Record type", "name", rt.Name))
		}
		names[rt.Name] = struct{}{}
		if rt.PageLayoutID != "" && obj.FindLayout(rt.PageLayoutID) == nil {
			errs = append(errs, appErrors.NewValidationError("pageLayoutId",
				fmt.Sprintf("record type '%s' references missing layout '%s'", rt.Name, rt.PageLayoutID)))
		}
	}
	if defaults > 1 {
		errs = append(errs, appErrors.NewValidationError("recordTypes",
			fmt.Sprintf("object '%s' has %d default record types", obj.APIName, defaults)))
	}
	if obj.DefaultRecordTypeID != "" {
		rt := obj.FindRecordType(obj.DefaultRecordTypeID)
		if rt == nil || !rt.Default {
			errs = append(errs, appErrors.NewValidationError("defaultRecordTypeId",
				fmt.Sprintf("'%s' is not the default record type of '%s'", obj.DefaultRecordTypeID, obj.APIName)))
		}
	}
	return errors.Join(errs...)
}
