package constants

// HistoryLimit bounds the number of schema snapshots kept for rollback
const HistoryLimit = 10

// Schema persistence tables
const (
	TableSchema        = "_System_Schema"
	TableSchemaHistory = "_System_Schema_History"
)

// Persisted document columns
const (
	ColumnID        = "id"
	ColumnVersion   = "version"
	ColumnDocument  = "document"
	ColumnUpdatedAt = "updated_at"
	ColumnCreatedAt = "created_at"
)

// CurrentSchemaRowID is the primary key of the single current-schema row
const CurrentSchemaRowID = 1

// Fallback layout labels
const (
	FallbackLayoutName   = "Default Layout"
	FallbackTabLabel     = "Details"
	FallbackSectionLabel = "Information"
	FallbackColumns      = 2
)
