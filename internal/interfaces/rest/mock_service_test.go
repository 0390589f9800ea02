package rest_test

import (
	"context"

	"github.com/nexuscrm/builder/internal/application/services"
	"github.com/nexuscrm/builder/internal/codec"
	"github.com/nexuscrm/builder/internal/domain/layout"
	"github.com/nexuscrm/builder/internal/domain/object"
	"github.com/nexuscrm/builder/pkg/expression"
	"github.com/nexuscrm/builder/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockSchemaService is a mock implementation of rest.SchemaService
type MockSchemaService struct {
	mock.Mock
}

func (m *MockSchemaService) ListObjects() []models.ObjectDef {
	args := m.Called()
	return args.Get(0).([]models.ObjectDef)
}

func (m *MockSchemaService) GetObject(apiName string) (models.ObjectDef, error) {
	args := m.Called(apiName)
	return args.Get(0).(models.ObjectDef), args.Error(1)
}

func (m *MockSchemaService) CreateObject(ctx context.Context, input models.ObjectDef) (models.ObjectDef, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.ObjectDef), args.Error(1)
}

func (m *MockSchemaService) UpdateObject(ctx context.Context, apiName string, changes services.ObjectChanges) (models.ObjectDef, error) {
	args := m.Called(ctx, apiName, changes)
	return args.Get(0).(models.ObjectDef), args.Error(1)
}

func (m *MockSchemaService) PlanDeleteObject(apiName string) (object.ImpactReport, error) {
	args := m.Called(apiName)
	return args.Get(0).(object.ImpactReport), args.Error(1)
}

func (m *MockSchemaService) DeleteObject(ctx context.Context, apiName string, cascade bool) ([]object.Impact, error) {
	args := m.Called(ctx, apiName, cascade)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]object.Impact), args.Error(1)
}

func (m *MockSchemaService) ListFields(objectAPIName string, includeSystem bool) ([]models.FieldDef, error) {
	args := m.Called(objectAPIName, includeSystem)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FieldDef), args.Error(1)
}

func (m *MockSchemaService) GetField(objectAPIName, fieldAPIName string) (models.FieldDef, error) {
	args := m.Called(objectAPIName, fieldAPIName)
	return args.Get(0).(models.FieldDef), args.Error(1)
}

func (m *MockSchemaService) AddField(ctx context.Context, objectAPIName string, field models.FieldDef) (models.FieldDef, error) {
	args := m.Called(ctx, objectAPIName, field)
	return args.Get(0).(models.FieldDef), args.Error(1)
}

func (m *MockSchemaService) UpdateField(ctx context.Context, objectAPIName string, field models.FieldDef) (models.FieldDef, error) {
	args := m.Called(ctx, objectAPIName, field)
	return args.Get(0).(models.FieldDef), args.Error(1)
}

func (m *MockSchemaService) PlanDeleteField(objectAPIName, fieldAPIName string) (object.ImpactReport, error) {
	args := m.Called(objectAPIName, fieldAPIName)
	return args.Get(0).(object.ImpactReport), args.Error(1)
}

func (m *MockSchemaService) DeleteField(ctx context.Context, objectAPIName, fieldAPIName string, cascade bool) ([]object.Impact, error) {
	args := m.Called(ctx, objectAPIName, fieldAPIName, cascade)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]object.Impact), args.Error(1)
}

func (m *MockSchemaService) AddRecordType(ctx context.Context, objectAPIName string, rt models.RecordType) (models.RecordType, error) {
	args := m.Called(ctx, objectAPIName, rt)
	return args.Get(0).(models.RecordType), args.Error(1)
}

func (m *MockSchemaService) UpdateRecordType(ctx context.Context, objectAPIName string, rt models.RecordType) (models.RecordType, error) {
	args := m.Called(ctx, objectAPIName, rt)
	return args.Get(0).(models.RecordType), args.Error(1)
}

func (m *MockSchemaService) DeleteRecordType(ctx context.Context, objectAPIName, id string) error {
	return m.Called(ctx, objectAPIName, id).Error(0)
}

func (m *MockSchemaService) SetDefaultRecordType(ctx context.Context, objectAPIName, id string) error {
	return m.Called(ctx, objectAPIName, id).Error(0)
}

func (m *MockSchemaService) ResolveLayout(objectAPIName, layoutID string) (layout.RenderTree, error) {
	args := m.Called(objectAPIName, layoutID)
	return args.Get(0).(layout.RenderTree), args.Error(1)
}

func (m *MockSchemaService) EffectiveLayout(objectAPIName string, layoutType models.LayoutType, recordTypeID string) (layout.RenderTree, error) {
	args := m.Called(objectAPIName, layoutType, recordTypeID)
	return args.Get(0).(layout.RenderTree), args.Error(1)
}

func (m *MockSchemaService) CreateLayout(ctx context.Context, objectAPIName string, l models.PageLayout) (models.PageLayout, error) {
	args := m.Called(ctx, objectAPIName, l)
	return args.Get(0).(models.PageLayout), args.Error(1)
}

func (m *MockSchemaService) UpdateLayout(ctx context.Context, objectAPIName string, l models.PageLayout) (models.PageLayout, error) {
	args := m.Called(ctx, objectAPIName, l)
	return args.Get(0).(models.PageLayout), args.Error(1)
}

func (m *MockSchemaService) DeleteLayout(ctx context.Context, objectAPIName, layoutID string, cascade bool) ([]string, error) {
	args := m.Called(ctx, objectAPIName, layoutID, cascade)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSchemaService) AddTab(ctx context.Context, objectAPIName, layoutID string, tab models.PageTab) (models.PageTab, error) {
	args := m.Called(ctx, objectAPIName, layoutID, tab)
	return args.Get(0).(models.PageTab), args.Error(1)
}

func (m *MockSchemaService) AddSection(ctx context.Context, objectAPIName, layoutID, tabID string, sec models.PageSection) (models.PageSection, error) {
	args := m.Called(ctx, objectAPIName, layoutID, tabID, sec)
	return args.Get(0).(models.PageSection), args.Error(1)
}

func (m *MockSchemaService) PlaceField(ctx context.Context, objectAPIName, layoutID, sectionID string, pf models.PageField) error {
	return m.Called(ctx, objectAPIName, layoutID, sectionID, pf).Error(0)
}

func (m *MockSchemaService) RemovePlacement(ctx context.Context, objectAPIName, layoutID, fieldAPIName string) error {
	return m.Called(ctx, objectAPIName, layoutID, fieldAPIName).Error(0)
}

func (m *MockSchemaService) AddValidationRule(ctx context.Context, objectAPIName string, rule models.ValidationRule) (models.ValidationRule, error) {
	args := m.Called(ctx, objectAPIName, rule)
	return args.Get(0).(models.ValidationRule), args.Error(1)
}

func (m *MockSchemaService) UpdateValidationRule(ctx context.Context, objectAPIName string, rule models.ValidationRule) (models.ValidationRule, error) {
	args := m.Called(ctx, objectAPIName, rule)
	return args.Get(0).(models.ValidationRule), args.Error(1)
}

func (m *MockSchemaService) DeleteValidationRule(ctx context.Context, objectAPIName, ruleID string) error {
	return m.Called(ctx, objectAPIName, ruleID).Error(0)
}

func (m *MockSchemaService) SetValidationRuleActive(ctx context.Context, objectAPIName, ruleID string, active bool) error {
	return m.Called(ctx, objectAPIName, ruleID, active).Error(0)
}

func (m *MockSchemaService) EvaluateRules(objectAPIName string, record models.Record) ([]expression.Violation, error) {
	args := m.Called(objectAPIName, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]expression.Violation), args.Error(1)
}

func (m *MockSchemaService) ListPermissionSets() []models.PermissionSet {
	return m.Called().Get(0).([]models.PermissionSet)
}

func (m *MockSchemaService) GetPermissionSet(id string) (models.PermissionSet, error) {
	args := m.Called(id)
	return args.Get(0).(models.PermissionSet), args.Error(1)
}

func (m *MockSchemaService) CreatePermissionSet(ctx context.Context, ps models.PermissionSet) (models.PermissionSet, error) {
	args := m.Called(ctx, ps)
	return args.Get(0).(models.PermissionSet), args.Error(1)
}

func (m *MockSchemaService) UpdatePermissionSet(ctx context.Context, ps models.PermissionSet) (models.PermissionSet, error) {
	args := m.Called(ctx, ps)
	return args.Get(0).(models.PermissionSet), args.Error(1)
}

func (m *MockSchemaService) DeletePermissionSet(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSchemaService) Version() int {
	return m.Called().Int(0)
}

func (m *MockSchemaService) Save(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSchemaService) History(ctx context.Context) ([]*models.OrgSchema, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OrgSchema), args.Error(1)
}

func (m *MockSchemaService) Rollback(ctx context.Context, version int) (*models.OrgSchema, error) {
	args := m.Called(ctx, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrgSchema), args.Error(1)
}

func (m *MockSchemaService) ExportSchema(objectAPIName string, format codec.Format) ([]byte, error) {
	args := m.Called(objectAPIName, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSchemaService) ImportSchema(ctx context.Context, data []byte, merge bool) (services.ImportResult, error) {
	args := m.Called(ctx, data, merge)
	return args.Get(0).(services.ImportResult), args.Error(1)
}
