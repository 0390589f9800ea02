// Package codec converts schema documents to and from their portable text
// forms (JSON wire format and YAML).
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
	"gopkg.in/yaml.v3"
)

// Format selects the text encoding of a document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user supplied name to a Format; empty means JSON
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", appErrors.NewValidationError("format", fmt.Sprintf("unsupported format '%s'", name))
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// DetectFormat treats a document starting with '{' as JSON and anything else as YAML
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// Export serializes the full schema. Output is deterministic: struct fields
// keep declaration order and map keys are sorted by both encoders.
func Export(schema *models.OrgSchema, format Format) ([]byte, error) {
	doc := schema.Clone()
	normalize(doc)
	return marshal(doc, format)
}

// ExportObject serializes one object inside a document envelope so that
// the output can be imported back (typically with merge).
func ExportObject(schema *models.OrgSchema, objectAPIName string, format Format) ([]byte, error) {
	obj := schema.FindObject(objectAPIName)
	if obj == nil {
		return nil, appErrors.NewNotFoundError("Object", objectAPIName)
	}
	doc := &models.OrgSchema{
		Version:        schema.Version,
		Objects:        []models.ObjectDef{obj.Clone()},
		PermissionSets: []models.PermissionSet{},
		UpdatedAt:      schema.UpdatedAt,
	}
	normalize(doc)
	return marshal(doc, format)
}

func marshal(doc *models.OrgSchema, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, appErrors.NewInternalError("encode yaml document", err)
		}
		if err := enc.Close(); err != nil {
			return nil, appErrors.NewInternalError("encode yaml document", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, appErrors.NewInternalError("encode json document", err)
		}
		return append(data, '\n'), nil
	}
	return nil, appErrors.NewValidationError("format", fmt.Sprintf("unsupported format '%s'", format))
}

// Decode parses a document after checking its top-level shape: a numeric
// version and an objects array are required. Identifiers are left untouched.
func Decode(data []byte, format Format) (*models.OrgSchema, error) {
	var probe map[string]interface{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &probe)
	default:
		err = json.Unmarshal(data, &probe)
	}
	if err != nil {
		return nil, appErrors.NewInvalidSchemaFormatError(fmt.Sprintf("document is not valid %s: %v", formatName(format), err))
	}
	if probe == nil {
		return nil, appErrors.NewInvalidSchemaFormatError("document must be an object")
	}
	if !isInteger(probe["version"]) {
		return nil, appErrors.NewInvalidSchemaFormatError("top-level 'version' must be a number")
	}
	if _, ok := probe["objects"].([]interface{}); !ok {
		return nil, appErrors.NewInvalidSchemaFormatError("top-level 'objects' must be an array")
	}
	if ps, present := probe["permissionSets"]; present && ps != nil {
		if _, ok := ps.([]interface{}); !ok {
			return nil, appErrors.NewInvalidSchemaFormatError("top-level 'permissionSets' must be an array")
		}
	}

	var schema models.OrgSchema
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &schema)
	default:
		err = json.Unmarshal(data, &schema)
	}
	if err != nil {
		return nil, appErrors.NewInvalidSchemaFormatError(err.Error())
	}
	normalize(&schema)
	return &schema, nil
}

func formatName(f Format) string {
	if f == FormatYAML {
		return "YAML"
	}
	return "JSON"
}

func isInteger(v interface{}) bool {
	switch n := v.(type) {
	case int, int64, uint64:
		return true
	case float64:
		return !math.IsNaN(n) && n == math.Trunc(n)
	}
	return false
}

// normalize replaces nil collections with empty ones so documents always
// carry arrays where the wire format promises them
func normalize(s *models.OrgSchema) {
	if s.Objects == nil {
		s.Objects = []models.ObjectDef{}
	}
	if s.PermissionSets == nil {
		s.PermissionSets = []models.PermissionSet{}
	}
	for i := range s.Objects {
		obj := &s.Objects[i]
		if obj.Fields == nil {
			obj.Fields = []models.FieldDef{}
		}
		if obj.RecordTypes == nil {
			obj.RecordTypes = []models.RecordType{}
		}
		if obj.PageLayouts == nil {
			obj.PageLayouts = []models.PageLayout{}
		}
		if obj.ValidationRules == nil {
			obj.ValidationRules = []models.ValidationRule{}
		}
		for li := range obj.PageLayouts {
			l := &obj.PageLayouts[li]
			if l.Tabs == nil {
				l.Tabs = []models.PageTab{}
			}
			for ti := range l.Tabs {
				if l.Tabs[ti].Sections == nil {
					l.Tabs[ti].Sections = []models.PageSection{}
				}
				for si := range l.Tabs[ti].Sections {
					if l.Tabs[ti].Sections[si].Fields == nil {
						l.Tabs[ti].Sections[si].Fields = []models.PageField{}
					}
				}
			}
		}
	}
	for i := range s.PermissionSets {
		ps := &s.PermissionSets[i]
		if ps.ObjectPermissions == nil {
			ps.ObjectPermissions = map[string]models.ObjectAccess{}
		}
		if ps.FieldPermissions == nil {
			ps.FieldPermissions = map[string]models.FieldAccess{}
		}
	}
}
