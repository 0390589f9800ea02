package object

import (
	"github.com/nexuscrm/builder/pkg/constants"
	"github.com/nexuscrm/builder/pkg/models"
)

// SystemFields returns the implicit fields present on every object. They are
// synthesized on lookup and never stored in ObjectDef.Fields.
func SystemFields() []models.FieldDef {
	return []models.FieldDef{
		{ID: constants.FieldID, APIName: constants.FieldID, Label: "Record ID", Type: constants.FieldTypeSystemID, Required: true, Unique: true, ReadOnly: true, IsSystem: true},
		{ID: constants.FieldCreatedDate, APIName: constants.FieldCreatedDate, Label: "Created Date", Type: constants.FieldTypeDateTime, ReadOnly: true, IsSystem: true},
		{ID: constants.FieldLastModifiedDate, APIName: constants.FieldLastModifiedDate, Label: "Last Modified Date", Type: constants.FieldTypeDateTime, ReadOnly: true, IsSystem: true},
		{ID: constants.FieldCreatedByID, APIName: constants.FieldCreatedByID, Label: "Created By", Type: constants.FieldTypeSystemReference, ReadOnly: true, IsSystem: true},
		{ID: constants.FieldLastModifiedByID, APIName: constants.FieldLastModifiedByID, Label: "Last Modified By", Type: constants.FieldTypeSystemReference, ReadOnly: true, IsSystem: true},
	}
}

// ResolveField finds a stored or system field by exact apiName
func ResolveField(obj *models.ObjectDef, apiName string) (models.FieldDef, bool) {
	if f := obj.FindField(apiName); f != nil {
		return *f, true
	}
	if constants.IsSystemField(apiName) {
		for _, sf := range SystemFields() {
			if sf.APIName == apiName {
				return sf, true
			}
		}
	}
	return models.FieldDef{}, false
}

// AllFields returns system fields followed by the stored fields in declaration order
func AllFields(obj *models.ObjectDef) []models.FieldDef {
	out := SystemFields()
	return append(out, obj.Fields...)
}

// CustomFields returns the user-defined fields in declaration order
func CustomFields(obj *models.ObjectDef) []models.FieldDef {
	out := make([]models.FieldDef, 0, len(obj.Fields))
	for _, f := range obj.Fields {
		if f.IsSystem || constants.IsSystemField(f.APIName) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FieldPermissionKey is the PermissionSet.FieldPermissions key of a field
func FieldPermissionKey(objectAPIName, fieldAPIName string) string {
	return objectAPIName + "." + fieldAPIName
}
