package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DecodeRecord decodes a backend payload into a Record. The API emits a
// mix of snake_case and camelCase keys depending on which worker wrote
// the record, and numeric fields arrive as either numbers or strings,
// so we decode through a generic map and normalize instead of relying
// on strict struct tags.
func DecodeRecord(data []byte) (*Record, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return recordFromMap(m), nil
}

// DecodeHistory decodes the history listing, which is served either as
// a bare array or wrapped in an {analises: [...]} envelope.
func DecodeHistory(data []byte) ([]*Record, error) {
	var arr []map[string]any
	if err := json.Unmarshal(data, &arr); err == nil {
		return recordsFromMaps(arr), nil
	}

	var env struct {
		Analises []map[string]any `json:"analises"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return recordsFromMaps(env.Analises), nil
}

func recordsFromMaps(maps []map[string]any) []*Record {
	recs := make([]*Record, 0, len(maps))
	for _, m := range maps {
		recs = append(recs, recordFromMap(m))
	}
	return recs
}

func recordFromMap(m map[string]any) *Record {
	rec := &Record{
		ID:        asString(pick(m, "id")),
		CreatedAt: asString(pick(m, "criado_em", "created_at", "data")),
	}

	if dados, ok := pick(m, "dados_extraidos", "dadosExtraidos").(map[string]any); ok {
		rec.Dados = extractedFromMap(dados)
	}
	if val, ok := pick(m, "validacao").(map[string]any); ok {
		rec.Validacao = validationFromMap(val)
	}
	if fa, ok := pick(m, "fraude_analise", "fraudeAnalise").(map[string]any); ok {
		rec.Fraude = fraudFromMap(fa)
	}
	if fr, ok := pick(m, "resultado_final").(map[string]any); ok {
		rec.ResultadoFinal = &FinalResult{
			IsFraudulento: asBool(pick(fr, "is_fraudulento", "isFraudulento")),
		}
		// Some workers fold the ML verdict into resultado_final.
		if rec.Fraude == nil {
			if fa := fraudFromMap(fr); fa.ClassePredita != nil {
				rec.Fraude = fa
			}
		}
	}
	return rec
}

func extractedFromMap(m map[string]any) *ExtractedData {
	d := &ExtractedData{
		LinhaDigitavel:   asString(pick(m, "linha_digitavel", "linhaDigitavel")),
		CodigoBanco:      asCode(pick(m, "codigo_banco", "codigoBanco")),
		BancoNome:        asString(pick(m, "banco_nome", "bancoNome")),
		Vencimento:       asString(pick(m, "vencimento")),
		BeneficiarioCNPJ: asString(pick(m, "beneficiario_cnpj", "beneficiarioCnpj")),
	}
	if v, ok := asFloat(pick(m, "valor")); ok {
		d.Valor = &v
	}
	return d
}

func validationFromMap(m map[string]any) *Validation {
	v := &Validation{}
	if b, ok := pick(m, "valido").(bool); ok {
		v.Valido = &b
	}
	if errs, ok := pick(m, "erros").([]any); ok {
		for _, e := range errs {
			v.Erros = append(v.Erros, asString(e))
		}
	}
	return v
}

func fraudFromMap(m map[string]any) *FraudAnalysis {
	fa := &FraudAnalysis{}
	if f, ok := asFloat(pick(m, "classe_predita", "classePredita")); ok {
		c := int(f)
		fa.ClassePredita = &c
	}
	if f, ok := asFloat(pick(m, "confianca")); ok {
		fa.Confianca = f
	}
	return fa
}

// pick returns the first present, non-nil key.
func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// asCode normalizes a bank code to its plain digit form whether the
// backend sent "237", 237 or 237.0.
func asCode(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.Itoa(int(t))
	}
	return ""
}
