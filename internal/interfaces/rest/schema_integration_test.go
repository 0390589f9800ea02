package rest_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexuscrm/builder/internal/application/services"
	"github.com/nexuscrm/builder/internal/bootstrap"
	"github.com/nexuscrm/builder/internal/infrastructure/persistence"
	"github.com/nexuscrm/builder/internal/interfaces/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStoreRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := persistence.NewMemoryRepository(bootstrap.Seed(nil, time.Now))
	store, err := services.NewSchemaStore(context.Background(), repo)
	require.NoError(t, err)
	return rest.NewRouter(rest.NewSchemaHandler(store), zap.NewNop())
}

func TestSchemaAPI_BuildAndVersion(t *testing.T) {
	router := newStoreRouter(t)

	w := doRequest(router, http.MethodGet, "/api/schema/objects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["objects"], 3)

	w = doRequest(router, http.MethodPost, "/api/schema/objects/Account/fields",
		[]byte(`{"label":"Region","type":"Picklist","picklistValues":["EMEA","APAC"]}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	field := decodeBody(t, w)["field"].(map[string]interface{})
	assert.Equal(t, "Account__region", field["apiName"])
	assert.NotEmpty(t, field["id"])

	w = doRequest(router, http.MethodPost, "/api/schema/objects/Account/fields",
		[]byte(`{"label":"Tier","type":"Picklist"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["reasons"], "MISSING_REQUIRED_CONSTRAINT")

	w = doRequest(router, http.MethodPost, "/api/schema/save", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["version"])

	w = doRequest(router, http.MethodGet, "/api/schema/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["history"], 1)

	w = doRequest(router, http.MethodGet, "/api/schema/objects/Account/fields?includeSystem=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	withSystem := len(decodeBody(t, w)["fields"].([]interface{}))
	w = doRequest(router, http.MethodGet, "/api/schema/objects/Account/fields", nil)
	assert.Equal(t, withSystem-5, len(decodeBody(t, w)["fields"].([]interface{})))
}

func TestSchemaAPI_DeletionNeedsCascade(t *testing.T) {
	router := newStoreRouter(t)

	w := doRequest(router, http.MethodGet, "/api/schema/objects/Opportunity/fields/LossReason/impact", nil)
	require.Equal(t, http.StatusOK, w.Code)
	impact := decodeBody(t, w)["impact"].(map[string]interface{})
	assert.NotEmpty(t, impact["impacts"])

	w = doRequest(router, http.MethodDelete, "/api/schema/objects/Opportunity/fields/LossReason", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "IN_USE", decodeBody(t, w)["code"])

	w = doRequest(router, http.MethodDelete, "/api/schema/objects/Opportunity/fields/LossReason?cascade=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["warnings"])

	w = doRequest(router, http.MethodGet, "/api/schema/objects/Opportunity/fields/LossReason", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/schema/objects/Account/fields/CreatedDate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["reasons"], "SYSTEM_FIELD")
}

func TestSchemaAPI_RulesAndLayouts(t *testing.T) {
	router := newStoreRouter(t)

	w := doRequest(router, http.MethodPost, "/api/schema/objects/Opportunity/rules/evaluate", []byte(`{"record":{"Amount":-5}}`))
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["valid"])

	w = doRequest(router, http.MethodPost, "/api/schema/objects/Opportunity/rules",
		[]byte(`{"name":"Broken","errorMessage":"x","active":true,"condition":"Amount <"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["reasons"], "INVALID_EXPRESSION")

	w = doRequest(router, http.MethodGet, "/api/schema/objects/Opportunity/layouts/effective", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tree := decodeBody(t, w)["layout"].(map[string]interface{})
	assert.Equal(t, false, tree["fallback"])
	assert.NotEmpty(t, tree["tabs"])
}

func TestSchemaAPI_ExportImportRoundTrip(t *testing.T) {
	router := newStoreRouter(t)

	w := doRequest(router, http.MethodGet, "/api/schema/export?format=yaml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := w.Body.Bytes()

	other := newStoreRouter(t)
	w = doRequest(other, http.MethodPost, "/api/schema/import", doc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeBody(t, w)["result"].(map[string]interface{})
	assert.Equal(t, float64(3), result["objects"])

	w = doRequest(other, http.MethodPost, "/api/schema/import", []byte(`[1,2,3]`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(other, http.MethodGet, "/api/schema/document-schema", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/schema+json", w.Header().Get("Content-Type"))

	w = doRequest(other, http.MethodGet, "/api/schema/field-types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["fieldTypes"])
}
