package properties

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"ocm.software/open-component-model/bindings/go/scene/value"
)

// Schema generates the JSON schema of the registered type.
// Opaque values (value.Raw) are unconstrained, identifiers are strings.
func Schema(registration *Registration) ([]byte, error) {
	if registration == nil || registration.Type == nil {
		return nil, fmt.Errorf("cannot generate JSON schema without a registration")
	}
	r := &invopop.Reflector{
		ExpandedStruct:             true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper: func(t reflect.Type) *invopop.Schema {
			switch t {
			case rawType:
				return &invopop.Schema{}
			case reflect.TypeFor[value.Identifier]():
				return &invopop.Schema{Type: "string"}
			}
			return nil
		},
	}
	schema := r.ReflectFromType(registration.Type)
	schema.Title = registration.Name
	data, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to create json schema for %s: %w", registration.Name, err)
	}
	return data, nil
}

// Compile generates and compiles the JSON schema of the registered type.
func Compile(registration *Registration) (*jsonschema.Schema, error) {
	data, err := Schema(registration)
	if err != nil {
		return nil, err
	}
	const schemaFile = "schema.json"
	unmarshaler, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaFile, unmarshaler); err != nil {
		return nil, fmt.Errorf("failed to add schema: %w", err)
	}
	sch, err := c.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return sch, nil
}

// Validate checks the document against the JSON schema of the registered type.
// The document is any value that marshals to JSON, typically a decoded manifest.
func Validate(registration *Registration, doc any) error {
	sch, err := Compile(registration)
	if err != nil {
		return err
	}
	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if err := sch.Validate(instance); err != nil {
		var typRaw bytes.Buffer
		err = errors.Join(err, json.Indent(&typRaw, content, "", "  "))
		return fmt.Errorf("%s is invalid:\n%s\n: %w", registration.Name, typRaw.String(), err)
	}
	return nil
}
