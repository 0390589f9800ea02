package rest

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/nexuscrm/builder/internal/application/services"
	"github.com/nexuscrm/builder/internal/codec"
	"github.com/nexuscrm/builder/internal/domain/layout"
	"github.com/nexuscrm/builder/internal/domain/object"
	"github.com/nexuscrm/builder/pkg/expression"
	"github.com/nexuscrm/builder/pkg/models"
)

// SchemaService is the schema store as seen by the HTTP layer
type SchemaService interface {
	ListObjects() []models.ObjectDef
	GetObject(apiName string) (models.ObjectDef, error)
	CreateObject(ctx context.Context, input models.ObjectDef) (models.ObjectDef, error)
	UpdateObject(ctx context.Context, apiName string, changes services.ObjectChanges) (models.ObjectDef, error)
	PlanDeleteObject(apiName string) (object.ImpactReport, error)
	DeleteObject(ctx context.Context, apiName string, cascade bool) ([]object.Impact, error)

	ListFields(objectAPIName string, includeSystem bool) ([]models.FieldDef, error)
	GetField(objectAPIName, fieldAPIName string) (models.FieldDef, error)
	AddField(ctx context.Context, objectAPIName string, field models.FieldDef) (models.FieldDef, error)
	UpdateField(ctx context.Context, objectAPIName string, field models.FieldDef) (models.FieldDef, error)
	PlanDeleteField(objectAPIName, fieldAPIName string) (object.ImpactReport, error)
	DeleteField(ctx context.Context, objectAPIName, fieldAPIName string, cascade bool) ([]object.Impact, error)

	AddRecordType(ctx context.Context, objectAPIName string, rt models.RecordType) (models.RecordType, error)
	UpdateRecordType(ctx context.Context, objectAPIName string, rt models.RecordType) (models.RecordType, error)
	DeleteRecordType(ctx context.Context, objectAPIName, id string) error
	SetDefaultRecordType(ctx context.Context, objectAPIName, id string) error

	ResolveLayout(objectAPIName, layoutID string) (layout.RenderTree, error)
	EffectiveLayout(objectAPIName string, layoutType models.LayoutType, recordTypeID string) (layout.RenderTree, error)
	CreateLayout(ctx context.Context, objectAPIName string, l models.PageLayout) (models.PageLayout, error)
	UpdateLayout(ctx context.Context, objectAPIName string, l models.PageLayout) (models.PageLayout, error)
	DeleteLayout(ctx context.Context, objectAPIName, layoutID string, cascade bool) ([]string, error)
	AddTab(ctx context.Context, objectAPIName, layoutID string, tab models.PageTab) (models.PageTab, error)
	AddSection(ctx context.Context, objectAPIName, layoutID, tabID string, sec models.PageSection) (models.PageSection, error)
	PlaceField(ctx context.Context, objectAPIName, layoutID, sectionID string, pf models.PageField) error
	RemovePlacement(ctx context.Context, objectAPIName, layoutID, fieldAPIName string) error

	AddValidationRule(ctx context.Context, objectAPIName string, rule models.ValidationRule) (models.ValidationRule, error)
	UpdateValidationRule(ctx context.Context, objectAPIName string, rule models.ValidationRule) (models.ValidationRule, error)
	DeleteValidationRule(ctx context.Context, objectAPIName, ruleID string) error
	SetValidationRuleActive(ctx context.Context, objectAPIName, ruleID string, active bool) error
	EvaluateRules(objectAPIName string, record models.Record) ([]expression.Violation, error)

	ListPermissionSets() []models.PermissionSet
	GetPermissionSet(id string) (models.PermissionSet, error)
	CreatePermissionSet(ctx context.Context, ps models.PermissionSet) (models.PermissionSet, error)
	UpdatePermissionSet(ctx context.Context, ps models.PermissionSet) (models.PermissionSet, error)
	DeletePermissionSet(ctx context.Context, id string) error

	Version() int
	Save(ctx context.Context) (int, error)
	History(ctx context.Context) ([]*models.OrgSchema, error)
	Rollback(ctx context.Context, version int) (*models.OrgSchema, error)
	ExportSchema(objectAPIName string, format codec.Format) ([]byte, error)
	ImportSchema(ctx context.Context, data []byte, merge bool) (services.ImportResult, error)
}

var _ SchemaService = (*services.SchemaStore)(nil)

// SchemaHandler serves the schema builder API
type SchemaHandler struct {
	svc SchemaService
}

// NewSchemaHandler creates a new SchemaHandler
func NewSchemaHandler(svc SchemaService) *SchemaHandler {
	return &SchemaHandler{svc: svc}
}

// RegisterRoutes mounts every schema endpoint under r
func (h *SchemaHandler) RegisterRoutes(r gin.IRouter) {
	schema := r.Group("/schema")
	{
		schema.GET("/objects", h.ListObjects)
		schema.POST("/objects", h.CreateObject)
		schema.GET("/objects/:apiName", h.GetObject)
		schema.PATCH("/objects/:apiName", h.UpdateObject)
		schema.DELETE("/objects/:apiName", h.DeleteObject)
		schema.GET("/objects/:apiName/impact", h.PlanDeleteObject)

		schema.GET("/objects/:apiName/fields", h.ListFields)
		schema.POST("/objects/:apiName/fields", h.AddField)
		schema.GET("/objects/:apiName/fields/:fieldApiName", h.GetField)
		schema.PUT("/objects/:apiName/fields/:fieldApiName", h.UpdateField)
		schema.DELETE("/objects/:apiName/fields/:fieldApiName", h.DeleteField)
		schema.GET("/objects/:apiName/fields/:fieldApiName/impact", h.PlanDeleteField)

		schema.POST("/objects/:apiName/record-types", h.AddRecordType)
		schema.PUT("/objects/:apiName/record-types/:id", h.UpdateRecordType)
		schema.DELETE("/objects/:apiName/record-types/:id", h.DeleteRecordType)
		schema.POST("/objects/:apiName/record-types/:id/default", h.SetDefaultRecordType)

		schema.GET("/objects/:apiName/layouts/effective", h.EffectiveLayout)
		schema.POST("/objects/:apiName/layouts", h.CreateLayout)
		schema.PUT("/objects/:apiName/layouts/:layoutId", h.UpdateLayout)
		schema.DELETE("/objects/:apiName/layouts/:layoutId", h.DeleteLayout)
		schema.GET("/objects/:apiName/layouts/:layoutId/resolve", h.ResolveLayout)
		schema.POST("/objects/:apiName/layouts/:layoutId/tabs", h.AddTab)
		schema.POST("/objects/:apiName/layouts/:layoutId/tabs/:tabId/sections", h.AddSection)
		schema.POST("/objects/:apiName/layouts/:layoutId/sections/:sectionId/fields", h.PlaceField)
		schema.DELETE("/objects/:apiName/layouts/:layoutId/fields/:fieldApiName", h.RemovePlacement)

		schema.POST("/objects/:apiName/rules", h.AddValidationRule)
		schema.POST("/objects/:apiName/rules/evaluate", h.EvaluateRules)
		schema.PUT("/objects/:apiName/rules/:ruleId", h.UpdateValidationRule)
		schema.DELETE("/objects/:apiName/rules/:ruleId", h.DeleteValidationRule)
		schema.PUT("/objects/:apiName/rules/:ruleId/active", h.SetValidationRuleActive)

		schema.GET("/permission-sets", h.ListPermissionSets)
		schema.POST("/permission-sets", h.CreatePermissionSet)
		schema.GET("/permission-sets/:id", h.GetPermissionSet)
		schema.PUT("/permission-sets/:id", h.UpdatePermissionSet)
		schema.DELETE("/permission-sets/:id", h.DeletePermissionSet)

		schema.POST("/save", h.Save)
		schema.GET("/history", h.History)
		schema.POST("/rollback/:version", h.Rollback)
		schema.GET("/export", h.Export)
		schema.POST("/import", h.Import)
		schema.GET("/document-schema", h.DocumentSchema)
		schema.GET("/field-types", h.FieldTypes)
	}
}
