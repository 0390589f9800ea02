package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/expression"
	"github.com/nexuscrm/builder/pkg/models"
)

// ==================== Validation Rule Handlers ====================

// AddValidationRule handles POST /api/schema/objects/:apiName/rules
func (h *SchemaHandler) AddValidationRule(c *gin.Context) {
	var req models.ValidationRule
	HandleCreateEnvelope(c, "rule", "Validation rule created successfully", &req, func() (interface{}, error) {
		return h.svc.AddValidationRule(c.Request.Context(), c.Param("apiName"), req)
	})
}

// UpdateValidationRule handles PUT /api/schema/objects/:apiName/rules/:ruleId
func (h *SchemaHandler) UpdateValidationRule(c *gin.Context) {
	var req models.ValidationRule
	HandleUpdateEnvelope(c, "rule", "Validation rule updated successfully", &req, func() (interface{}, error) {
		req.ID = c.Param("ruleId")
		return h.svc.UpdateValidationRule(c.Request.Context(), c.Param("apiName"), req)
	})
}

// DeleteValidationRule handles DELETE /api/schema/objects/:apiName/rules/:ruleId
func (h *SchemaHandler) DeleteValidationRule(c *gin.Context) {
	HandleDeleteEnvelope(c, "Validation rule deleted successfully", func() error {
		return h.svc.DeleteValidationRule(c.Request.Context(), c.Param("apiName"), c.Param("ruleId"))
	})
}

// SetActiveRequest toggles a validation rule
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// SetValidationRuleActive handles PUT /api/schema/objects/:apiName/rules/:ruleId/active
func (h *SchemaHandler) SetValidationRuleActive(c *gin.Context) {
	var req SetActiveRequest
	HandleUpdateEnvelope(c, "", "Validation rule updated successfully", &req, func() (interface{}, error) {
		return nil, h.svc.SetValidationRuleActive(c.Request.Context(), c.Param("apiName"), c.Param("ruleId"), req.Active)
	})
}

// EvaluateRequest carries a candidate record as plain JSON values
type EvaluateRequest struct {
	Record map[string]interface{} `json:"record"`
}

// EvaluateRules handles POST /api/schema/objects/:apiName/rules/evaluate.
// Response: { violations: [...], valid: bool }
func (h *SchemaHandler) EvaluateRules(c *gin.Context) {
	var req EvaluateRequest
	if !BindJSON(c, &req) {
		return
	}
	record, err := models.RecordFromMap(req.Record)
	if err != nil {
		RespondAppError(c, appErrors.NewValidationError("record", err.Error()))
		return
	}
	violations, err := h.svc.EvaluateRules(c.Param("apiName"), record)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if violations == nil {
		violations = []expression.Violation{}
	}
	c.JSON(http.StatusOK, gin.H{"violations": violations, "valid": len(violations) == 0})
}

// ==================== Permission Set Handlers ====================

// ListPermissionSets handles GET /api/schema/permission-sets
func (h *SchemaHandler) ListPermissionSets(c *gin.Context) {
	HandleGetEnvelope(c, "permissionSets", func() (interface{}, error) {
		return h.svc.ListPermissionSets(), nil
	})
}

// GetPermissionSet handles GET /api/schema/permission-sets/:id
func (h *SchemaHandler) GetPermissionSet(c *gin.Context) {
	HandleGetEnvelope(c, "permissionSet", func() (interface{}, error) {
		return h.svc.GetPermissionSet(c.Param("id"))
	})
}

// CreatePermissionSet handles POST /api/schema/permission-sets
func (h *SchemaHandler) CreatePermissionSet(c *gin.Context) {
	var req models.PermissionSet
	HandleCreateEnvelope(c, "permissionSet", "Permission set created successfully", &req, func() (interface{}, error) {
		return h.svc.CreatePermissionSet(c.Request.Context(), req)
	})
}

// UpdatePermissionSet handles PUT /api/schema/permission-sets/:id
func (h *SchemaHandler) UpdatePermissionSet(c *gin.Context) {
	var req models.PermissionSet
	HandleUpdateEnvelope(c, "permissionSet", "Permission set updated successfully", &req, func() (interface{}, error) {
		req.ID = c.Param("id")
		return h.svc.UpdatePermissionSet(c.Request.Context(), req)
	})
}

// DeletePermissionSet handles DELETE /api/schema/permission-sets/:id
func (h *SchemaHandler) DeletePermissionSet(c *gin.Context) {
	HandleDeleteEnvelope(c, "Permission set deleted successfully", func() error {
		return h.svc.DeletePermissionSet(c.Request.Context(), c.Param("id"))
	})
}
