package fieldtypes

import (
	"embed"
	"encoding/json"
	"sort"
	"sync"
)

//go:embed fieldTypes.json
var fieldTypesFS embed.FS

// Field type categories
const (
	CategoryText         = "text"
	CategoryNumeric      = "numeric"
	CategoryBoolean      = "boolean"
	CategoryTemporal     = "temporal"
	CategoryPicklist     = "picklist"
	CategoryRelationship = "relationship"
	CategoryComputed     = "computed"
	CategoryCompound     = "compound"
	CategorySystem       = "system"
)

// FieldTypeDefinition represents a field type configuration
type FieldTypeDefinition struct {
	Label                 string   `json:"label"`
	Description           string   `json:"description"`
	Category              string   `json:"category"`
	DefaultMaxLength      int      `json:"defaultMaxLength,omitempty"`
	MaxLengthCap          int      `json:"maxLengthCap,omitempty"`
	DefaultPrecision      int      `json:"defaultPrecision,omitempty"`
	DefaultScale          int      `json:"defaultScale,omitempty"`
	RequiresPicklist      bool     `json:"requiresPicklist,omitempty"`
	RequiresLookup        bool     `json:"requiresLookup,omitempty"`
	RequiresFormula       bool     `json:"requiresFormula,omitempty"`
	RequiresDisplayFormat bool     `json:"requiresDisplayFormat,omitempty"`
	IsVirtual             bool     `json:"isVirtual,omitempty"`
	IsSystemOnly          bool     `json:"isSystemOnly,omitempty"`
	Operators             []string `json:"operators"`
}

// Registry holds field type definitions
type Registry struct {
	types map[string]FieldTypeDefinition
	mu    sync.RWMutex
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// GetRegistry returns the singleton field types registry
func GetRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = &Registry{
			types: make(map[string]FieldTypeDefinition),
		}
		if err := defaultRegistry.loadFromEmbedded(); err != nil {
			panic("fieldtypes: embedded definitions are invalid: " + err.Error())
		}
	})
	return defaultRegistry
}

func (r *Registry) loadFromEmbedded() error {
	data, err := fieldTypesFS.ReadFile("fieldTypes.json")
	if err != nil {
		return err
	}

	var types map[string]FieldTypeDefinition
	if err := json.Unmarshal(data, &types); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = types
	return nil
}

// Get returns a field type definition by name
func (r *Registry) Get(typeName string) (FieldTypeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.types[typeName]
	return def, ok
}

// IsKnown reports whether typeName is registered
func (r *Registry) IsKnown(typeName string) bool {
	_, ok := r.Get(typeName)
	return ok
}

// IsNumeric returns whether values of the type are numbers
func (r *Registry) IsNumeric(typeName string) bool {
	def, ok := r.Get(typeName)
	return ok && def.Category == CategoryNumeric
}

// IsText returns whether values of the type are strings bounded by maxLength
func (r *Registry) IsText(typeName string) bool {
	def, ok := r.Get(typeName)
	return ok && def.Category == CategoryText
}

// IsVirtual returns whether a field type is computed rather than entered
func (r *Registry) IsVirtual(typeName string) bool {
	def, ok := r.Get(typeName)
	return ok && def.IsVirtual
}

// GetOperators returns the visibility operators that make sense for a field type
func (r *Registry) GetOperators(typeName string) []string {
	def, ok := r.Get(typeName)
	if !ok {
		return nil
	}
	return def.Operators
}

// GetAll returns all registered field types
func (r *Registry) GetAll() map[string]FieldTypeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]FieldTypeDefinition, len(r.types))
	for k, v := range r.types {
		result[k] = v
	}
	return result
}

// FieldTypeWithName includes the name in the field type definition
type FieldTypeWithName struct {
	Name string `json:"name"`
	FieldTypeDefinition
}

// GetAllFieldTypes returns the user-selectable field types sorted by name
func GetAllFieldTypes() []FieldTypeWithName {
	all := GetRegistry().GetAll()
	result := make([]FieldTypeWithName, 0, len(all))
	for name, def := range all {
		if def.IsSystemOnly {
			continue
		}
		result = append(result, FieldTypeWithName{Name: name, FieldTypeDefinition: def})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
