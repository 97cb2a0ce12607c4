package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) as
// a generic map describing the expected record shape. Used as an
// advisory check on responses: a mismatch is logged, never fatal,
// because every field in the record is optional by contract.
func BuildRecordJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":        map[string]any{"type": "string"},
			"criado_em": map[string]any{"type": "string"},
			"dados_extraidos": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"linha_digitavel":   map[string]any{"type": "string"},
					"codigo_banco":      map[string]any{"type": []string{"string", "number"}},
					"banco_nome":        map[string]any{"type": "string"},
					"valor":             map[string]any{"type": []string{"number", "string"}},
					"vencimento":        map[string]any{"type": "string"},
					"beneficiario_cnpj": map[string]any{"type": "string"},
				},
			},
			"validacao": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"valido": map[string]any{"type": "boolean"},
					"erros":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
			},
			"fraude_analise": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"classe_predita": map[string]any{"type": []string{"integer", "number"}},
					"confianca":      map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
				},
			},
			"resultado_final": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"is_fraudulento": map[string]any{"type": "boolean"},
				},
			},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
