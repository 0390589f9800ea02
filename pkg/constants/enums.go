package constants

// SchemaFieldType represents the type of a field
type SchemaFieldType string

const (
	FieldTypeText          SchemaFieldType = "Text"
	FieldTypeTextArea      SchemaFieldType = "TextArea"
	FieldTypeLongTextArea  SchemaFieldType = "LongTextArea"
	FieldTypeRichText      SchemaFieldType = "RichText"
	FieldTypeNumber        SchemaFieldType = "Number"
	FieldTypeCurrency      SchemaFieldType = "Currency"
	FieldTypePercent       SchemaFieldType = "Percent"
	FieldTypeCheckbox      SchemaFieldType = "Checkbox"
	FieldTypeDate          SchemaFieldType = "Date"
	FieldTypeDateTime      SchemaFieldType = "DateTime"
	FieldTypePicklist      SchemaFieldType = "Picklist"
	FieldTypeMultiPicklist SchemaFieldType = "MultiPicklist"
	FieldTypeLookup        SchemaFieldType = "Lookup"
	FieldTypeFormula       SchemaFieldType = "Formula"

	// System-facing types
	FieldTypeAutoNumber      SchemaFieldType = "AutoNumber"
	FieldTypeRollupSummary   SchemaFieldType = "RollupSummary"
	FieldTypeExternalLookup  SchemaFieldType = "ExternalLookup"
	FieldTypeEncryptedText   SchemaFieldType = "EncryptedText"
	FieldTypeGeolocation     SchemaFieldType = "Geolocation"
	FieldTypePhone           SchemaFieldType = "Phone"
	FieldTypeEmail           SchemaFieldType = "Email"
	FieldTypeURL             SchemaFieldType = "Url"
	FieldTypeAddress         SchemaFieldType = "Address"
	FieldTypeSystemID        SchemaFieldType = "Id"
	FieldTypeSystemReference SchemaFieldType = "Reference"
)

// GetAllFieldTypes returns all user-selectable field types as a slice of strings
func GetAllFieldTypes() []string {
	return []string{
		string(FieldTypeText),
		string(FieldTypeTextArea),
		string(FieldTypeLongTextArea),
		string(FieldTypeRichText),
		string(FieldTypeNumber),
		string(FieldTypeCurrency),
		string(FieldTypePercent),
		string(FieldTypeCheckbox),
		string(FieldTypeDate),
		string(FieldTypeDateTime),
		string(FieldTypePicklist),
		string(FieldTypeMultiPicklist),
		string(FieldTypeLookup),
		string(FieldTypeFormula),
		string(FieldTypeAutoNumber),
		string(FieldTypeRollupSummary),
		string(FieldTypeExternalLookup),
		string(FieldTypeEncryptedText),
		string(FieldTypeGeolocation),
		string(FieldTypePhone),
		string(FieldTypeEmail),
		string(FieldTypeURL),
		string(FieldTypeAddress),
	}
}

// LayoutType discriminates create and edit page layouts
type LayoutType string

const (
	LayoutTypeCreate LayoutType = "create"
	LayoutTypeEdit   LayoutType = "edit"
)

// IsValidLayoutType reports whether t is a known layout type
func IsValidLayoutType(t LayoutType) bool {
	return t == LayoutTypeCreate || t == LayoutTypeEdit
}

// ConditionOperator is the operator of a visibility condition
type ConditionOperator string

const (
	OpEquals     ConditionOperator = "=="
	OpNotEquals  ConditionOperator = "!="
	OpGreater    ConditionOperator = ">"
	OpLess       ConditionOperator = "<"
	OpGreaterEq  ConditionOperator = ">="
	OpLessEq     ConditionOperator = "<="
	OpIn         ConditionOperator = "IN"
	OpIncludes   ConditionOperator = "INCLUDES"
	OpContains   ConditionOperator = "CONTAINS"
	OpStartsWith ConditionOperator = "STARTS_WITH"
)

// GetAllOperators returns every supported condition operator
func GetAllOperators() []ConditionOperator {
	return []ConditionOperator{
		OpEquals, OpNotEquals, OpGreater, OpLess, OpGreaterEq, OpLessEq,
		OpIn, OpIncludes, OpContains, OpStartsWith,
	}
}

// IsKnownOperator reports whether op is a supported condition operator
func IsKnownOperator(op ConditionOperator) bool {
	for _, known := range GetAllOperators() {
		if known == op {
			return true
		}
	}
	return false
}

// StorageDriver selects the schema repository backend
type StorageDriver string

const (
	StorageMemory StorageDriver = "memory"
	StorageFile   StorageDriver = "file"
	StorageMySQL  StorageDriver = "mysql"
	StorageRedis  StorageDriver = "redis"
)
