package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexuscrm/builder/internal/codec"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/fieldtypes"
)

// HistoryEntry summarizes one retained snapshot
type HistoryEntry struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	Objects   int       `json:"objects"`
}

// Save handles POST /api/schema/save
func (h *SchemaHandler) Save(c *gin.Context) {
	version, err := h.svc.Save(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{FieldMessage: "Schema saved", "version": version})
}

// History handles GET /api/schema/history. Only summaries are returned; use
// rollback to restore one.
func (h *SchemaHandler) History(c *gin.Context) {
	HandleGetEnvelope(c, "history", func() (interface{}, error) {
		snapshots, err := h.svc.History(c.Request.Context())
		if err != nil {
			return nil, err
		}
		entries := make([]HistoryEntry, 0, len(snapshots))
		for _, snap := range snapshots {
			entries = append(entries, HistoryEntry{
				Version:   snap.Version,
				UpdatedAt: snap.UpdatedAt,
				Objects:   len(snap.Objects),
			})
		}
		return entries, nil
	})
}

// Rollback handles POST /api/schema/rollback/:version
func (h *SchemaHandler) Rollback(c *gin.Context) {
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		RespondAppError(c, appErrors.NewValidationError("version", "version must be an integer"))
		return
	}
	restored, err := h.svc.Rollback(c.Request.Context(), version)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		FieldMessage: "Schema rolled back",
		"from":       version,
		"version":    restored.Version,
	})
}

// Export handles GET /api/schema/export?format=json|yaml&object=ApiName
func (h *SchemaHandler) Export(c *gin.Context) {
	format, err := codec.ParseFormat(c.Query("format"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	data, err := h.svc.ExportSchema(c.Query("object"), format)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.Data(http.StatusOK, format.ContentType(), data)
}

// Import handles POST /api/schema/import?merge=true with a JSON or YAML body
func (h *SchemaHandler) Import(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		RespondAppError(c, appErrors.NewValidationError("body", err.Error()))
		return
	}
	result, err := h.svc.ImportSchema(c.Request.Context(), data, queryBool(c, "merge"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{FieldMessage: "Schema imported", "result": result})
}

// DocumentSchema handles GET /api/schema/document-schema
func (h *SchemaHandler) DocumentSchema(c *gin.Context) {
	data, err := codec.DocumentJSONSchema()
	if err != nil {
		RespondAppError(c, appErrors.NewInternalError("failed to build document schema", err))
		return
	}
	c.Data(http.StatusOK, "application/schema+json", data)
}

// FieldTypes handles GET /api/schema/field-types
func (h *SchemaHandler) FieldTypes(c *gin.Context) {
	HandleGetEnvelope(c, "fieldTypes", func() (interface{}, error) {
		return fieldtypes.GetAllFieldTypes(), nil
	})
}
