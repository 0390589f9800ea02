package codec

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
)

var valueType = reflect.TypeOf(models.Value{})

// valueSchema describes models.Value, whose payload is unexported
func valueSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{
			{Type: "null"},
			{Type: "boolean"},
			{Type: "number"},
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}

// DocumentSchema reflects the JSON Schema of the persisted schema document
func DocumentSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == valueType {
				return valueSchema()
			}
			return nil
		},
	}
	s := r.Reflect(&models.OrgSchema{})
	s.Title = "NexusCRM schema document"
	return s
}

// DocumentJSONSchema renders DocumentSchema as indented JSON
func DocumentJSONSchema() ([]byte, error) {
	data, err := json.MarshalIndent(DocumentSchema(), "", "  ")
	if err != nil {
		return nil, appErrors.NewInternalError("encode document schema", err)
	}
	return data, nil
}
