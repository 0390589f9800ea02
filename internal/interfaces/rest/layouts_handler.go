package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/nexuscrm/builder/pkg/constants"
	"github.com/nexuscrm/builder/pkg/models"
)

// ==================== Record Type Handlers ====================

// AddRecordType handles POST /api/schema/objects/:apiName/record-types
func (h *SchemaHandler) AddRecordType(c *gin.Context) {
	var req models.RecordType
	HandleCreateEnvelope(c, "recordType", "Record type created successfully", &req, func() (interface{}, error) {
		return h.svc.AddRecordType(c.Request.Context(), c.Param("apiName"), req)
	})
}

// UpdateRecordType handles PUT /api/schema/objects/:apiName/record-types/:id
func (h *SchemaHandler) UpdateRecordType(c *gin.Context) {
	var req models.RecordType
	HandleUpdateEnvelope(c, "recordType", "Record type updated successfully", &req, func() (interface{}, error) {
		req.ID = c.Param("id")
		return h.svc.UpdateRecordType(c.Request.Context(), c.Param("apiName"), req)
	})
}

// DeleteRecordType handles DELETE /api/schema/objects/:apiName/record-types/:id
func (h *SchemaHandler) DeleteRecordType(c *gin.Context) {
	HandleDeleteEnvelope(c, "Record type deleted successfully", func() error {
		return h.svc.DeleteRecordType(c.Request.Context(), c.Param("apiName"), c.Param("id"))
	})
}

// SetDefaultRecordType handles POST /api/schema/objects/:apiName/record-types/:id/default
func (h *SchemaHandler) SetDefaultRecordType(c *gin.Context) {
	HandleDeleteEnvelope(c, "Default record type updated", func() error {
		return h.svc.SetDefaultRecordType(c.Request.Context(), c.Param("apiName"), c.Param("id"))
	})
}

// ==================== Layout Handlers ====================

// EffectiveLayout handles GET /api/schema/objects/:apiName/layouts/effective?type=edit&recordTypeId=
func (h *SchemaHandler) EffectiveLayout(c *gin.Context) {
	layoutType := models.LayoutType(c.DefaultQuery("type", string(constants.LayoutTypeEdit)))
	HandleGetEnvelope(c, "layout", func() (interface{}, error) {
		return h.svc.EffectiveLayout(c.Param("apiName"), layoutType, c.Query("recordTypeId"))
	})
}

// ResolveLayout handles GET /api/schema/objects/:apiName/layouts/:layoutId/resolve
func (h *SchemaHandler) ResolveLayout(c *gin.Context) {
	HandleGetEnvelope(c, "layout", func() (interface{}, error) {
		return h.svc.ResolveLayout(c.Param("apiName"), c.Param("layoutId"))
	})
}

// CreateLayout handles POST /api/schema/objects/:apiName/layouts
func (h *SchemaHandler) CreateLayout(c *gin.Context) {
	var req models.PageLayout
	HandleCreateEnvelope(c, "layout", "Layout created successfully", &req, func() (interface{}, error) {
		return h.svc.CreateLayout(c.Request.Context(), c.Param("apiName"), req)
	})
}

// UpdateLayout handles PUT /api/schema/objects/:apiName/layouts/:layoutId
func (h *SchemaHandler) UpdateLayout(c *gin.Context) {
	var req models.PageLayout
	HandleUpdateEnvelope(c, "layout", "Layout updated successfully", &req, func() (interface{}, error) {
		req.ID = c.Param("layoutId")
		return h.svc.UpdateLayout(c.Request.Context(), c.Param("apiName"), req)
	})
}

// DeleteLayout handles DELETE /api/schema/objects/:apiName/layouts/:layoutId?cascade=true
func (h *SchemaHandler) DeleteLayout(c *gin.Context) {
	HandleUpdateEnvelope(c, "clearedRecordTypes", "Layout deleted successfully", nil, func() (interface{}, error) {
		return h.svc.DeleteLayout(c.Request.Context(), c.Param("apiName"), c.Param("layoutId"), queryBool(c, "cascade"))
	})
}

// AddTab handles POST /api/schema/objects/:apiName/layouts/:layoutId/tabs
func (h *SchemaHandler) AddTab(c *gin.Context) {
	var req models.PageTab
	HandleCreateEnvelope(c, "tab", "Tab added successfully", &req, func() (interface{}, error) {
		return h.svc.AddTab(c.Request.Context(), c.Param("apiName"), c.Param("layoutId"), req)
	})
}

// AddSection handles POST /api/schema/objects/:apiName/layouts/:layoutId/tabs/:tabId/sections
func (h *SchemaHandler) AddSection(c *gin.Context) {
	var req models.PageSection
	HandleCreateEnvelope(c, "section", "Section added successfully", &req, func() (interface{}, error) {
		return h.svc.AddSection(c.Request.Context(), c.Param("apiName"), c.Param("layoutId"), c.Param("tabId"), req)
	})
}

// PlaceField handles POST /api/schema/objects/:apiName/layouts/:layoutId/sections/:sectionId/fields
func (h *SchemaHandler) PlaceField(c *gin.Context) {
	var req models.PageField
	HandleCreateEnvelope(c, "placement", "Field placed successfully", &req, func() (interface{}, error) {
		err := h.svc.PlaceField(c.Request.Context(), c.Param("apiName"), c.Param("layoutId"), c.Param("sectionId"), req)
		return req, err
	})
}

// RemovePlacement handles DELETE /api/schema/objects/:apiName/layouts/:layoutId/fields/:fieldApiName
func (h *SchemaHandler) RemovePlacement(c *gin.Context) {
	HandleDeleteEnvelope(c, "Field removed from layout", func() error {
		return h.svc.RemovePlacement(c.Request.Context(), c.Param("apiName"), c.Param("layoutId"), c.Param("fieldApiName"))
	})
}
