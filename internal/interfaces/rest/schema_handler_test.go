package rest_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexuscrm/builder/internal/application/services"
	"github.com/nexuscrm/builder/internal/codec"
	"github.com/nexuscrm/builder/internal/domain/layout"
	"github.com/nexuscrm/builder/internal/domain/object"
	"github.com/nexuscrm/builder/internal/interfaces/rest"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/expression"
	"github.com/nexuscrm/builder/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newMockRouter(svc *MockSchemaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return rest.NewRouter(rest.NewSchemaHandler(svc), zap.NewNop())
}

func doRequest(router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestSchemaHandler_GetObject(t *testing.T) {
	mockService := new(MockSchemaService)
	router := newMockRouter(mockService)

	mockService.On("GetObject", "Account").Return(models.ObjectDef{ID: "obj-1", APIName: "Account", Label: "Account"}, nil)
	mockService.On("GetObject", "Ghost").Return(models.ObjectDef{}, appErrors.NewNotFoundError("Object", "Ghost"))

	w := doRequest(router, http.MethodGet, "/api/schema/objects/Account", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	obj := decodeBody(t, w)["object"].(map[string]interface{})
	assert.Equal(t, "Account", obj["apiName"])

	w = doRequest(router, http.MethodGet, "/api/schema/objects/Ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "Object 'Ghost' not found", body["error"])
	assert.Equal(t, []interface{}{appErrors.ReasonNotFound}, body["reasons"])
	assert.Nil(t, body["data"])

	mockService.AssertExpectations(t)
}

func TestSchemaHandler_CreateObject(t *testing.T) {
	mockService := new(MockSchemaService)
	router := newMockRouter(mockService)

	mockService.On("CreateObject", mock.Anything, mock.MatchedBy(func(o models.ObjectDef) bool {
		return o.APIName == "Project" && o.Label == "Project"
	})).Return(models.ObjectDef{ID: "obj-9", APIName: "Project", Label: "Project", PluralLabel: "Projects"}, nil)

	w := doRequest(router, http.MethodPost, "/api/schema/objects", []byte(`{"apiName":"Project","label":"Project","pluralLabel":"Projects"}`))
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Object created successfully", body["message"])
	assert.Equal(t, "obj-9", body["object"].(map[string]interface{})["id"])

	w = doRequest(router, http.MethodPost, "/api/schema/objects", []byte(`{"apiName":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, w)["code"])

	mockService.AssertNumberOfCalls(t, "CreateObject", 1)
}

func TestSchemaHandler_AddField_Conflict(t *testing.T) {
	mockService := new(MockSchemaService)
	router := newMockRouter(mockService)

	mockService.On("AddField", mock.Anything, "Account", mock.Anything).
		Return(models.FieldDef{}, appErrors.NewDuplicateFieldError("Account", "Industry"))

	w := doRequest(router, http.MethodPost, "/api/schema/objects/Account/fields", []byte(`{"apiName":"Industry","label":"Industry","type":"Text"}`))
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "CONFLICT", body["code"])
	assert.Equal(t, []interface{}{appErrors.ReasonDuplicateFieldAPIName}, body["reasons"])
}

func TestSchemaHandler_UpdateField_PathNamesField(t *testing.T) {
	mockService := new(MockSchemaService)
	router := newMockRouter(mockService)

	mockService.On("UpdateField", mock.Anything, "Opportunity", mock.MatchedBy(func(f models.FieldDef) bool {
		return f.APIName == "Stage" && f.Label == "Sales Stage"
	})).Return(models.FieldDef{APIName: "Stage", Label: "Sales Stage"}, nil)

	w := doRequest(router, http.MethodPut, "/api/schema/objects/Opportunity/fields/Stage", []byte(`{"apiName":"Other","label":"Sales Stage","type":"Picklist"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestSchemaHandler_DeleteField(t *testing.T) {
	mockService := new(MockSchemaService)
	router := newMockRouter(mockService)

	refs := []string{"layout 'Opportunity Layout' section 'Closing'"}
	mockService.On("DeleteField", mock.Anything, "Opportunity", "LossReason", false).
		Return(nil, appErrors.NewFieldInUseError("LossReason", refs))
	mockService.On("DeleteField", mock.Anything, "Opportunity", "LossReason", true).
		Return([]object.Impact{{Kind: object.ImpactLayoutPlacement, Object: "Opportunity", Field: "LossReason", LayoutName: "Opportunity Layout", SectionLabel: "Closing"}}, nil)

	w := doRequest(router, http.MethodDelete, "/api/schema/objects/Opportunity/fields/LossReason", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "IN_USE", body["code"])
	assert.Equal(t, []interface{}{refs[0]}, body["details"])

	w = doRequest(router, http.MethodDelete, "/api/schema/objects/Opportunity/fields/LossReason?cascade=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "Field deleted successfully", body["message"])
	warnings := body["warnings"].([]interface{})
	require.Len(t, warnings, 1)
	assert.Equal(t, "Closing", warnings[0].(map[string]interface{})["sectionLabel"])

	mockService.AssertExpectations(t)
}

func TestSchemaHandler_EffectiveLayout_DefaultsToEdit(t *testing.T) {
	mockService := new(MockSchemaService)
	router := newMockRouter(mockService)

	tree := layout.RenderTree{ObjectAPIName: "Account", LayoutName: "Account Layout"}
	mockService.On("EffectiveLayout", "Account", models.LayoutType("edit"), "").Return(tree, nil)
	mockService.On("EffectiveLayout", "Account", models.LayoutType("create"), "rt-1").Return(tree, nil)

	w := doRequest(router, http.MethodGet, "/api/schema/objects/Account/layouts/effective", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(router, http.MethodGet, "/api/schema/objects/Account/layouts/effective?type=create&recordTypeId=rt-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestSchemaHandler_EvaluateRules(t *testing.T) {
	mockService := new(MockSchemaService)
	router := newMockRouter(mockService)

	mockService.On("EvaluateRules", "Opportunity", models.Record{"Amount": models.Number(-5)}).
		Return([]expression.Violation{{RuleID: "r1", RuleName: "AmountNotNegative", Message: "Amount cannot be negative"}}, nil)
	mockService.On("EvaluateRules", "Opportunity", models.Record{"Amount": models.Number(10)}).Return(nil, nil)

	w := doRequest(router, http.MethodPost, "/api/schema/objects/Opportunity/rules/evaluate", []byte(`{"record":{"Amount":-5}}`))
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["valid"])
	assert.Len(t, body["violations"], 1)

	w = doRequest(router, http.MethodPost, "/api/schema/objects/Opportunity/rules/evaluate", []byte(`{"record":{"Amount":10}}`))
	assert.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, []interface{}{}, body["violations"])

	w = doRequest(router, http.MethodPost, "/api/schema/objects/Opportunity/rules/evaluate", []byte(`{"record":{"Amount":{"value":1}}}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertNumberOfCalls(t, "EvaluateRules", 2)
}

func TestSchemaHandler_Versioning(t *testing.T) {
	mockService := new(MockSchemaService)
	router := newMockRouter(mockService)

	updated := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	mockService.On("Save", mock.Anything).Return(3, nil)
	mockService.On("History", mock.Anything).Return([]*models.OrgSchema{
		{Version: 3, UpdatedAt: updated, Objects: make([]models.ObjectDef, 4)},
		{Version: 2, UpdatedAt: updated, Objects: make([]models.ObjectDef, 3)},
	}, nil)
	mockService.On("Rollback", mock.Anything, 2).Return(&models.OrgSchema{Version: 4}, nil)
	mockService.On("Rollback", mock.Anything, 9).Return(nil, appErrors.NewVersionNotFoundError(9))

	w := doRequest(router, http.MethodPost, "/api/schema/save", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decodeBody(t, w)["version"])

	w = doRequest(router, http.MethodGet, "/api/schema/history", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	history := decodeBody(t, w)["history"].([]interface{})
	require.Len(t, history, 2)
	first := history[0].(map[string]interface{})
	assert.Equal(t, float64(3), first["version"])
	assert.Equal(t, float64(4), first["objects"])

	w = doRequest(router, http.MethodPost, "/api/schema/rollback/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["from"])
	assert.Equal(t, float64(4), body["version"])

	w = doRequest(router, http.MethodPost, "/api/schema/rollback/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []interface{}{appErrors.ReasonVersionNotFound}, decodeBody(t, w)["reasons"])

	w = doRequest(router, http.MethodPost, "/api/schema/rollback/latest", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertNumberOfCalls(t, "Rollback", 2)
}

func TestSchemaHandler_Export(t *testing.T) {
	mockService := new(MockSchemaService)
	router := newMockRouter(mockService)

	mockService.On("ExportSchema", "", codec.FormatJSON).Return([]byte(`{"objects":[]}`), nil)
	mockService.On("ExportSchema", "Account", codec.FormatYAML).Return([]byte("objects: []\n"), nil)

	w := doRequest(router, http.MethodGet, "/api/schema/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"objects":[]}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/schema/export?format=yaml&object=Account", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))

	w = doRequest(router, http.MethodGet, "/api/schema/export?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertExpectations(t)
}

func TestSchemaHandler_Import(t *testing.T) {
	mockService := new(MockSchemaService)
	router := newMockRouter(mockService)

	doc := []byte("objects:\n  - apiName: Project\n")
	mockService.On("ImportSchema", mock.Anything, doc, true).Return(services.ImportResult{Merge: true, Objects: 1}, nil)

	req, _ := http.NewRequest(http.MethodPost, "/api/schema/import?merge=true", bytes.NewReader(doc))
	req.Header.Set("Content-Type", "application/yaml")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	result := decodeBody(t, w)["result"].(map[string]interface{})
	assert.Equal(t, true, result["merge"])
	assert.Equal(t, float64(1), result["objects"])
	mockService.AssertExpectations(t)
}

func TestSchemaHandler_StorageFailureIsLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	mockService := new(MockSchemaService)
	router := rest.NewRouter(rest.NewSchemaHandler(mockService), zap.New(core))

	mockService.On("Save", mock.Anything).Return(0, appErrors.NewInternalError("persist schema", errors.New("disk full")))

	w := doRequest(router, http.MethodPost, "/api/schema/save", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeBody(t, w)["code"])

	failed := logs.FilterMessage("Request failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), failed[0].ContextMap()["status"])
}

func TestHealth(t *testing.T) {
	router := newMockRouter(new(MockSchemaService))
	w := doRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}
