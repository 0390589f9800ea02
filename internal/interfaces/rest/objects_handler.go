package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/nexuscrm/builder/internal/application/services"
	"github.com/nexuscrm/builder/pkg/models"
)

// ==================== Object Handlers ====================

// ListObjects handles GET /api/schema/objects
func (h *SchemaHandler) ListObjects(c *gin.Context) {
	HandleGetEnvelope(c, "objects", func() (interface{}, error) {
		return h.svc.ListObjects(), nil
	})
}

// GetObject handles GET /api/schema/objects/:apiName
func (h *SchemaHandler) GetObject(c *gin.Context) {
	HandleGetEnvelope(c, "object", func() (interface{}, error) {
		return h.svc.GetObject(c.Param("apiName"))
	})
}

// CreateObject handles POST /api/schema/objects
func (h *SchemaHandler) CreateObject(c *gin.Context) {
	var req models.ObjectDef
	HandleCreateEnvelope(c, "object", "Object created successfully", &req, func() (interface{}, error) {
		return h.svc.CreateObject(c.Request.Context(), req)
	})
}

// UpdateObject handles PATCH /api/schema/objects/:apiName
func (h *SchemaHandler) UpdateObject(c *gin.Context) {
	var req services.ObjectChanges
	HandleUpdateEnvelope(c, "object", "Object updated successfully", &req, func() (interface{}, error) {
		return h.svc.UpdateObject(c.Request.Context(), c.Param("apiName"), req)
	})
}

// PlanDeleteObject handles GET /api/schema/objects/:apiName/impact
func (h *SchemaHandler) PlanDeleteObject(c *gin.Context) {
	HandleGetEnvelope(c, "impact", func() (interface{}, error) {
		return h.svc.PlanDeleteObject(c.Param("apiName"))
	})
}

// DeleteObject handles DELETE /api/schema/objects/:apiName?cascade=true
func (h *SchemaHandler) DeleteObject(c *gin.Context) {
	HandleUpdateEnvelope(c, "warnings", "Object deleted successfully", nil, func() (interface{}, error) {
		return h.svc.DeleteObject(c.Request.Context(), c.Param("apiName"), queryBool(c, "cascade"))
	})
}

// ==================== Field Handlers ====================

// ListFields handles GET /api/schema/objects/:apiName/fields?includeSystem=true
func (h *SchemaHandler) ListFields(c *gin.Context) {
	HandleGetEnvelope(c, "fields", func() (interface{}, error) {
		return h.svc.ListFields(c.Param("apiName"), queryBool(c, "includeSystem"))
	})
}

// GetField handles GET /api/schema/objects/:apiName/fields/:fieldApiName
func (h *SchemaHandler) GetField(c *gin.Context) {
	HandleGetEnvelope(c, "field", func() (interface{}, error) {
		return h.svc.GetField(c.Param("apiName"), c.Param("fieldApiName"))
	})
}

// AddField handles POST /api/schema/objects/:apiName/fields
func (h *SchemaHandler) AddField(c *gin.Context) {
	var req models.FieldDef
	HandleCreateEnvelope(c, "field", "Field created successfully", &req, func() (interface{}, error) {
		return h.svc.AddField(c.Request.Context(), c.Param("apiName"), req)
	})
}

// UpdateField handles PUT /api/schema/objects/:apiName/fields/:fieldApiName.
// The path names the field; an apiName in the body is ignored.
func (h *SchemaHandler) UpdateField(c *gin.Context) {
	var req models.FieldDef
	HandleUpdateEnvelope(c, "field", "Field updated successfully", &req, func() (interface{}, error) {
		req.APIName = c.Param("fieldApiName")
		return h.svc.UpdateField(c.Request.Context(), c.Param("apiName"), req)
	})
}

// PlanDeleteField handles GET /api/schema/objects/:apiName/fields/:fieldApiName/impact
func (h *SchemaHandler) PlanDeleteField(c *gin.Context) {
	HandleGetEnvelope(c, "impact", func() (interface{}, error) {
		return h.svc.PlanDeleteField(c.Param("apiName"), c.Param("fieldApiName"))
	})
}

// DeleteField handles DELETE /api/schema/objects/:apiName/fields/:fieldApiName?cascade=true
func (h *SchemaHandler) DeleteField(c *gin.Context) {
	HandleUpdateEnvelope(c, "warnings", "Field deleted successfully", nil, func() (interface{}, error) {
		return h.svc.DeleteField(c.Request.Context(), c.Param("apiName"), c.Param("fieldApiName"), queryBool(c, "cascade"))
	})
}
