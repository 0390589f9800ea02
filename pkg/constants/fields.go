package constants

// System field API names. These are implicitly present on every object.
const (
	FieldID               = "Id"
	FieldCreatedDate      = "CreatedDate"
	FieldLastModifiedDate = "LastModifiedDate"
	FieldCreatedByID      = "CreatedById"
	FieldLastModifiedByID = "LastModifiedById"
)

// MaxAPINameLength is the maximum length of object and field API names
const MaxAPINameLength = 40

// CustomFieldSeparator joins the object API name and the field slug of a derived custom field name
const CustomFieldSeparator = "__"

// StandardSystemFields returns the list of system field names present on every object
func StandardSystemFields() []string {
	return []string{
		FieldID,
		FieldCreatedDate,
		FieldLastModifiedDate,
		FieldCreatedByID,
		FieldLastModifiedByID,
	}
}

// IsSystemField checks if a field name is a standard system field
func IsSystemField(fieldName string) bool {
	for _, sf := range StandardSystemFields() {
		if sf == fieldName {
			return true
		}
	}
	return false
}

// AuditFields returns the audit field names
func AuditFields() []string {
	return []string{
		FieldCreatedByID,
		FieldCreatedDate,
		FieldLastModifiedByID,
		FieldLastModifiedDate,
	}
}
