package models

import (
	"time"

	"github.com/nexuscrm/builder/pkg/constants"
)

// FieldType is defined in pkg/constants
type FieldType = constants.SchemaFieldType

// LayoutType is defined in pkg/constants
type LayoutType = constants.LayoutType

// Operator is defined in pkg/constants
type Operator = constants.ConditionOperator

// ConditionExpr is one visibility condition. Lists of conditions are AND-combined.
type ConditionExpr struct {
	Left  string   `json:"left" yaml:"left"`
	Op    Operator `json:"op" yaml:"op"`
	Right Value    `json:"right" yaml:"right"`
}

// FieldDef represents one field on one object
type FieldDef struct {
	ID               string              `json:"id" yaml:"id"`
	APIName          string              `json:"apiName" yaml:"apiName"`
	Label            string              `json:"label" yaml:"label"`
	Type             FieldType           `json:"type" yaml:"type"`
	Required         bool                `json:"required,omitempty" yaml:"required,omitempty"`
	Unique           bool                `json:"unique,omitempty" yaml:"unique,omitempty"`
	ReadOnly         bool                `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Precision        *int                `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale            *int                `json:"scale,omitempty" yaml:"scale,omitempty"`
	Min              *float64            `json:"min,omitempty" yaml:"min,omitempty"`
	Max              *float64            `json:"max,omitempty" yaml:"max,omitempty"`
	MaxLength        *int                `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	MinLength        *int                `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	PicklistValues   []string            `json:"picklistValues,omitempty" yaml:"picklistValues,omitempty"`
	DefaultValue     *Value              `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	HelpText         string              `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	ControllingField string              `json:"controllingField,omitempty" yaml:"controllingField,omitempty"`
	DependentValues  map[string][]string `json:"dependentValues,omitempty" yaml:"dependentValues,omitempty"`
	VisibleIf        []ConditionExpr     `json:"visibleIf,omitempty" yaml:"visibleIf,omitempty"`
	LookupObject     string              `json:"lookupObject,omitempty" yaml:"lookupObject,omitempty"`
	RelationshipName string              `json:"relationshipName,omitempty" yaml:"relationshipName,omitempty"`
	FormulaExpr      string              `json:"formulaExpr,omitempty" yaml:"formulaExpr,omitempty"`
	DisplayFormat    string              `json:"displayFormat,omitempty" yaml:"displayFormat,omitempty"`
	StartingNumber   *int                `json:"startingNumber,omitempty" yaml:"startingNumber,omitempty"`
	IsSystem         bool                `json:"isSystem,omitempty" yaml:"isSystem,omitempty"`
}

// RecordType is a named variant of an object that may select its own layout
type RecordType struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Default      bool   `json:"default" yaml:"default"`
	PageLayoutID string `json:"pageLayoutId,omitempty" yaml:"pageLayoutId,omitempty"`
}

// PageField places an existing field inside a section
type PageField struct {
	FieldAPIName string `json:"fieldApiName" yaml:"fieldApiName"`
	Column       int    `json:"column" yaml:"column"`
	Order        int    `json:"order" yaml:"order"`
}

// PageSection represents a section in a page layout tab
type PageSection struct {
	ID        string          `json:"id" yaml:"id"`
	Label     string          `json:"label" yaml:"label"`
	Columns   int             `json:"columns" yaml:"columns"`
	Order     int             `json:"order" yaml:"order"`
	VisibleIf []ConditionExpr `json:"visibleIf,omitempty" yaml:"visibleIf,omitempty"`
	Fields    []PageField     `json:"fields" yaml:"fields"`
}

// PageTab groups sections of a page layout
type PageTab struct {
	ID       string        `json:"id" yaml:"id"`
	Label    string        `json:"label" yaml:"label"`
	Order    int           `json:"order" yaml:"order"`
	Sections []PageSection `json:"sections" yaml:"sections"`
}

// PageLayout represents page layout configuration
type PageLayout struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	LayoutType LayoutType `json:"layoutType" yaml:"layoutType"`
	Tabs       []PageTab  `json:"tabs" yaml:"tabs"`
}

// ValidationRule blocks a record save when its condition evaluates to true
type ValidationRule struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	ErrorMessage string `json:"errorMessage" yaml:"errorMessage"`
	Active       bool   `json:"active" yaml:"active"`
	Condition    string `json:"condition" yaml:"condition"`
}

// ObjectDef represents one entity type
type ObjectDef struct {
	ID                  string           `json:"id" yaml:"id"`
	APIName             string           `json:"apiName" yaml:"apiName"`
	Label               string           `json:"label" yaml:"label"`
	PluralLabel         string           `json:"pluralLabel" yaml:"pluralLabel"`
	Description         string           `json:"description,omitempty" yaml:"description,omitempty"`
	Fields              []FieldDef       `json:"fields" yaml:"fields"`
	RecordTypes         []RecordType     `json:"recordTypes" yaml:"recordTypes"`
	PageLayouts         []PageLayout     `json:"pageLayouts" yaml:"pageLayouts"`
	ValidationRules     []ValidationRule `json:"validationRules" yaml:"validationRules"`
	DefaultRecordTypeID string           `json:"defaultRecordTypeId,omitempty" yaml:"defaultRecordTypeId,omitempty"`
	CreatedAt           time.Time        `json:"createdAt" yaml:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt" yaml:"updatedAt"`
}

// ObjectAccess is the object-level grant of a permission set
type ObjectAccess struct {
	Read   bool `json:"read" yaml:"read"`
	Create bool `json:"create" yaml:"create"`
	Edit   bool `json:"edit" yaml:"edit"`
	Delete bool `json:"delete" yaml:"delete"`
}

// FieldAccess is the field-level grant of a permission set
type FieldAccess struct {
	Read bool `json:"read" yaml:"read"`
	Edit bool `json:"edit" yaml:"edit"`
}

// PermissionSet is stored and versioned with the schema; it is not enforced here.
// FieldPermissions is keyed by "objectApiName.fieldApiName".
type PermissionSet struct {
	ID                string                  `json:"id" yaml:"id"`
	Name              string                  `json:"name" yaml:"name"`
	ObjectPermissions map[string]ObjectAccess `json:"objectPermissions" yaml:"objectPermissions"`
	FieldPermissions  map[string]FieldAccess  `json:"fieldPermissions" yaml:"fieldPermissions"`
}

// OrgSchema is the root aggregate, versioned as one unit
type OrgSchema struct {
	Version        int             `json:"version" yaml:"version"`
	Objects        []ObjectDef     `json:"objects" yaml:"objects"`
	PermissionSets []PermissionSet `json:"permissionSets" yaml:"permissionSets"`
	UpdatedAt      time.Time       `json:"updatedAt" yaml:"updatedAt"`
}

// FindObject returns the object with apiName (exact match), or nil
func (s *OrgSchema) FindObject(apiName string) *ObjectDef {
	for i := range s.Objects {
		if s.Objects[i].APIName == apiName {
			return &s.Objects[i]
		}
	}
	return nil
}

// ObjectIndex returns the position of the object with apiName, or -1
func (s *OrgSchema) ObjectIndex(apiName string) int {
	for i := range s.Objects {
		if s.Objects[i].APIName == apiName {
			return i
		}
	}
	return -1
}

// FindPermissionSet returns the permission set with id, or nil
func (s *OrgSchema) FindPermissionSet(id string) *PermissionSet {
	for i := range s.PermissionSets {
		if s.PermissionSets[i].ID == id {
			return &s.PermissionSets[i]
		}
	}
	return nil
}

// FindField returns the stored field with apiName (exact match), or nil.
// System fields are not stored; see the object domain package for resolution.
func (o *ObjectDef) FindField(apiName string) *FieldDef {
	for i := range o.Fields {
		if o.Fields[i].APIName == apiName {
			return &o.Fields[i]
		}
	}
	return nil
}

// FindLayout returns the layout with id, or nil
func (o *ObjectDef) FindLayout(id string) *PageLayout {
	for i := range o.PageLayouts {
		if o.PageLayouts[i].ID == id {
			return &o.PageLayouts[i]
		}
	}
	return nil
}

// FindRecordType returns the record type with id, or nil
func (o *ObjectDef) FindRecordType(id string) *RecordType {
	for i := range o.RecordTypes {
		if o.RecordTypes[i].ID == id {
			return &o.RecordTypes[i]
		}
	}
	return nil
}

// FindValidationRule returns the rule with id, or nil
func (o *ObjectDef) FindValidationRule(id string) *ValidationRule {
	for i := range o.ValidationRules {
		if o.ValidationRules[i].ID == id {
			return &o.ValidationRules[i]
		}
	}
	return nil
}

// FindSection returns the section with id and its owning tab, or nils
func (l *PageLayout) FindSection(id string) (*PageTab, *PageSection) {
	for ti := range l.Tabs {
		for si := range l.Tabs[ti].Sections {
			if l.Tabs[ti].Sections[si].ID == id {
				return &l.Tabs[ti], &l.Tabs[ti].Sections[si]
			}
		}
	}
	return nil, nil
}

// FieldCount returns the number of placements in the layout
func (l *PageLayout) FieldCount() int {
	n := 0
	for _, tab := range l.Tabs {
		for _, sec := range tab.Sections {
			n += len(sec.Fields)
		}
	}
	return n
}

// SectionCount returns the number of sections across all tabs
func (l *PageLayout) SectionCount() int {
	n := 0
	for _, tab := range l.Tabs {
		n += len(tab.Sections)
	}
	return n
}
