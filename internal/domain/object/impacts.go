package object

import (
	"fmt"
	"strings"

	"github.com/nexuscrm/builder/pkg/constants"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/expression"
	"github.com/nexuscrm/builder/pkg/models"
)

// ImpactKind classifies one reference that a deletion would break
type ImpactKind string

const (
	ImpactLayoutPlacement   ImpactKind = "layout_placement"
	ImpactSectionVisibility ImpactKind = "section_visibility"
	ImpactFieldVisibility   ImpactKind = "field_visibility"
	ImpactControllingField  ImpactKind = "controlling_field"
	ImpactValidationRule    ImpactKind = "validation_rule"
	ImpactFormula           ImpactKind = "formula"
	ImpactFieldPermission   ImpactKind = "field_permission"
	ImpactObjectPermission  ImpactKind = "object_permission"
	ImpactInboundLookup     ImpactKind = "inbound_lookup"
)

// Impact is one reference to a deletion target, with what cascade does about it
type Impact struct {
	Kind          ImpactKind `json:"kind"`
	Object        string     `json:"object"`
	Field         string     `json:"field,omitempty"`
	LayoutID      string     `json:"layoutId,omitempty"`
	LayoutName    string     `json:"layoutName,omitempty"`
	SectionID     string     `json:"sectionId,omitempty"`
	SectionLabel  string     `json:"sectionLabel,omitempty"`
	RuleID        string     `json:"ruleId,omitempty"`
	RuleName      string     `json:"ruleName,omitempty"`
	PermissionSet string     `json:"permissionSet,omitempty"`
	Message       string     `json:"message"`
}

func (i Impact) String() string { return i.Message }

// ImpactReport is the dry-run result of a deletion
type ImpactReport struct {
	Target  string   `json:"target"`
	Impacts []Impact `json:"impacts"`
}

// Blocked reports whether the deletion needs cascade
func (r ImpactReport) Blocked() bool { return len(r.Impacts) > 0 }

// Messages returns one line per impact
func (r ImpactReport) Messages() []string {
	out := make([]string, len(r.Impacts))
	for i, imp := range r.Impacts {
		out[i] = imp.Message
	}
	return out
}

// PlanFieldRemoval lists every reference to objectAPIName.fieldAPIName
func PlanFieldRemoval(schema *models.OrgSchema, objectAPIName, fieldAPIName string) (ImpactReport, error) {
	report := ImpactReport{Target: FieldPermissionKey(objectAPIName, fieldAPIName)}
	obj := schema.FindObject(objectAPIName)
	if obj == nil {
		return report, appErrors.NewNotFoundError("Object", objectAPIName)
	}
	if constants.IsSystemField(fieldAPIName) {
		return report, appErrors.NewReasonedValidationError(appErrors.ReasonSystemField, fieldAPIName, "system fields cannot be deleted")
	}
	if obj.FindField(fieldAPIName) == nil {
		return report, appErrors.NewNotFoundError("Field", report.Target)
	}
	report.Impacts = fieldImpacts(schema, obj, fieldAPIName)
	return report, nil
}

func fieldImpacts(schema *models.OrgSchema, obj *models.ObjectDef, apiName string) []Impact {
	var out []Impact
	for _, layout := range obj.PageLayouts {
		for _, tab := range layout.Tabs {
			for _, sec := range tab.Sections {
				for _, pf := range sec.Fields {
					if pf.FieldAPIName == apiName {
						out = append(out, Impact{
							Kind: ImpactLayoutPlacement, Object: obj.APIName, Field: apiName,
							LayoutID: layout.ID, LayoutName: layout.Name, SectionID: sec.ID, SectionLabel: sec.Label,
							Message: fmt.Sprintf("removed from layout '%s' section '%s'", layout.Name, sec.Label),
						})
					}
				}
				if conditionsReference(sec.VisibleIf, apiName) {
					out = append(out, Impact{
						Kind: ImpactSectionVisibility, Object: obj.APIName, Field: apiName,
						LayoutID: layout.ID, LayoutName: layout.Name, SectionID: sec.ID, SectionLabel: sec.Label,
						Message: fmt.Sprintf("visibility condition dropped from layout '%s' section '%s'", layout.Name, sec.Label),
					})
				}
			}
		}
	}
	for _, f := range obj.Fields {
		if f.APIName == apiName {
			continue
		}
		if conditionsReference(f.VisibleIf, apiName) {
			out = append(out, Impact{
				Kind: ImpactFieldVisibility, Object: obj.APIName, Field: f.APIName,
				Message: fmt.Sprintf("visibility condition dropped from field '%s'", f.APIName),
			})
		}
		if f.ControllingField == apiName {
			out = append(out, Impact{
				Kind: ImpactControllingField, Object: obj.APIName, Field: f.APIName,
				Message: fmt.Sprintf("field '%s' no longer has a controlling field", f.APIName),
			})
		}
		if f.FormulaExpr != "" && expression.References(f.FormulaExpr, apiName) {
			out = append(out, Impact{
				Kind: ImpactFormula, Object: obj.APIName, Field: f.APIName,
				Message: fmt.Sprintf("formula field '%s' references '%s' and will no longer resolve", f.APIName, apiName),
			})
		}
	}
	for _, rule := range obj.ValidationRules {
		if expression.References(rule.Condition, apiName) {
			out = append(out, Impact{
				Kind: ImpactValidationRule, Object: obj.APIName, Field: apiName,
				RuleID: rule.ID, RuleName: rule.Name,
				Message: fmt.Sprintf("validation rule '%s' disabled", rule.Name),
			})
		}
	}
	key := FieldPermissionKey(obj.APIName, apiName)
	for _, ps := range schema.PermissionSets {
		if _, ok := ps.FieldPermissions[key]; ok {
			out = append(out, Impact{
				Kind: ImpactFieldPermission, Object: obj.APIName, Field: apiName, PermissionSet: ps.Name,
				Message: fmt.Sprintf("field permission removed from permission set '%s'", ps.Name),
			})
		}
	}
	return out
}

// RemoveField deletes a field. Without cascade any reference fails with
// FIELD_IN_USE. With cascade the references are stripped, referencing rules
// are disabled, and the applied impacts are returned. Formula expressions are
// left as written; their impacts are warnings only.
func RemoveField(schema *models.OrgSchema, objectAPIName, fieldAPIName string, cascade bool) ([]Impact, error) {
	report, err := PlanFieldRemoval(schema, objectAPIName, fieldAPIName)
	if err != nil {
		return nil, err
	}
	if report.Blocked() && !cascade {
		return nil, appErrors.NewFieldInUseError(report.Target, report.Messages())
	}

	obj := schema.FindObject(objectAPIName)
	for li := range obj.PageLayouts {
		for ti := range obj.PageLayouts[li].Tabs {
			tab := &obj.PageLayouts[li].Tabs[ti]
			for si := range tab.Sections {
				sec := &tab.Sections[si]
				kept := sec.Fields[:0]
				for _, pf := range sec.Fields {
					if pf.FieldAPIName != fieldAPIName {
						kept = append(kept, pf)
					}
				}
				sec.Fields = kept
				sec.VisibleIf = withoutReferences(sec.VisibleIf, fieldAPIName)
			}
		}
	}
	for i := range obj.Fields {
		f := &obj.Fields[i]
		f.VisibleIf = withoutReferences(f.VisibleIf, fieldAPIName)
		if f.ControllingField == fieldAPIName {
			f.ControllingField = ""
			f.DependentValues = nil
		}
	}
	for i := range obj.ValidationRules {
		if expression.References(obj.ValidationRules[i].Condition, fieldAPIName) {
			obj.ValidationRules[i].Active = false
		}
	}
	key := FieldPermissionKey(objectAPIName, fieldAPIName)
	for i := range schema.PermissionSets {
		delete(schema.PermissionSets[i].FieldPermissions, key)
	}

	idx := fieldIndex(obj, fieldAPIName)
	obj.Fields = append(obj.Fields[:idx], obj.Fields[idx+1:]...)
	return report.Impacts, nil
}

// PlanObjectRemoval lists lookups from other objects and permission entries naming objectAPIName
func PlanObjectRemoval(schema *models.OrgSchema, objectAPIName string) (ImpactReport, error) {
	report := ImpactReport{Target: objectAPIName}
	if schema.FindObject(objectAPIName) == nil {
		return report, appErrors.NewNotFoundError("Object", objectAPIName)
	}
	for _, other := range schema.Objects {
		if other.APIName == objectAPIName {
			continue
		}
		for _, f := range other.Fields {
			if isLookup(f) && f.LookupObject == objectAPIName {
				report.Impacts = append(report.Impacts, Impact{
					Kind: ImpactInboundLookup, Object: other.APIName, Field: f.APIName,
					Message: fmt.Sprintf("lookup field '%s.%s' removed", other.APIName, f.APIName),
				})
			}
		}
	}
	prefix := objectAPIName + "."
	for _, ps := range schema.PermissionSets {
		_, hasObject := ps.ObjectPermissions[objectAPIName]
		fieldKeys := 0
		for key := range ps.FieldPermissions {
			if strings.HasPrefix(key, prefix) {
				fieldKeys++
			}
		}
		if hasObject || fieldKeys > 0 {
			report.Impacts = append(report.Impacts, Impact{
				Kind: ImpactObjectPermission, Object: objectAPIName, PermissionSet: ps.Name,
				Message: fmt.Sprintf("object permissions removed from permission set '%s'", ps.Name),
			})
		}
	}
	return report, nil
}

// RemoveObject deletes an object. With cascade, inbound lookups are removed
// through field cascade and permission entries are stripped; the report lists
// everything applied, including the impacts of each lookup removal.
func RemoveObject(schema *models.OrgSchema, objectAPIName string, cascade bool) ([]Impact, error) {
	report, err := PlanObjectRemoval(schema, objectAPIName)
	if err != nil {
		return nil, err
	}
	if report.Blocked() && !cascade {
		return nil, appErrors.NewObjectInUseError(objectAPIName, report.Messages())
	}

	var applied []Impact
	for _, imp := range report.Impacts {
		if imp.Kind != ImpactInboundLookup {
			continue
		}
		nested, err := RemoveField(schema, imp.Object, imp.Field, true)
		if err != nil {
			return nil, err
		}
		applied = append(applied, imp)
		applied = append(applied, nested...)
	}

	prefix := objectAPIName + "."
	for i := range schema.PermissionSets {
		ps := &schema.PermissionSets[i]
		delete(ps.ObjectPermissions, objectAPIName)
		for key := range ps.FieldPermissions {
			if strings.HasPrefix(key, prefix) {
				delete(ps.FieldPermissions, key)
			}
		}
	}
	for _, imp := range report.Impacts {
		if imp.Kind == ImpactObjectPermission {
			applied = append(applied, imp)
		}
	}

	idx := schema.ObjectIndex(objectAPIName)
	schema.Objects = append(schema.Objects[:idx], schema.Objects[idx+1:]...)
	return applied, nil
}

func isLookup(f models.FieldDef) bool {
	return f.Type == constants.FieldTypeLookup
}
