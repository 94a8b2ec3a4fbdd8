package config

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/runcfg/pkg/jsonschema"
)

// SchemaJSON is the JSON Schema every config file must satisfy.
//
//go:embed schema.json
var SchemaJSON string

var (
	fileSchemaOnce sync.Once
	fileSchema     *jsonschema.Schema
	fileSchemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	fileSchemaOnce.Do(func() {
		fileSchema, fileSchemaErr = jsonschema.Compile("runcfg.schema.json", SchemaJSON)
	})
	return fileSchema, fileSchemaErr
}

// checkSchema validates a decoded config file against SchemaJSON and
// reports each violation as a KindSchema error.
func checkSchema(value interface{}) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile embedded schema: %w", err)
	}

	violations := schema.ValidateValue(value)
	if len(violations) == 0 {
		return nil
	}

	errs := &ValidationErrors{}
	for _, v := range violations {
		if jv, ok := v.(jsonschema.Violation); ok {
			errs.Add(KindSchema, jv.Location, jv.Message)
			continue
		}
		errs.Add(KindSchema, "", v.Error())
	}
	return errs
}

// yamlValue converts a YAML node into the shape json.Unmarshal produces so
// it can be checked against the schema. Repeated mapping keys keep the last
// value; Validate reports them separately.
func yamlValue(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return map[string]interface{}{}, nil
		}
		return yamlValue(node.Content[0])
	case yaml.AliasNode:
		return yamlValue(node.Alias)
	case yaml.MappingNode:
		out := make(map[string]interface{}, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := yamlValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[node.Content[i].Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := yamlValue(child)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v interface{}
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
	}
}
