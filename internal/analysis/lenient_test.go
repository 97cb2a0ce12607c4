package analysis

import "testing"

func TestDecodeRecordSnakeCase(t *testing.T) {
	raw := []byte(`{
		"id": "abc123",
		"criado_em": "2026-08-20T10:00:00Z",
		"dados_extraidos": {
			"linha_digitavel": "23793381286000782713695000063305984660000026035",
			"codigo_banco": "237",
			"banco_nome": "Bradesco",
			"valor": 260.35,
			"vencimento": "2026-09-10",
			"beneficiario_cnpj": "60.746.948/0001-12"
		},
		"validacao": {"valido": true, "erros": []},
		"fraude_analise": {"classe_predita": 1, "confianca": 0.97},
		"resultado_final": {"is_fraudulento": false}
	}`)

	rec, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if rec.ID != "abc123" {
		t.Errorf("ID = %q", rec.ID)
	}
	if rec.Dados == nil || rec.Dados.CodigoBanco != "237" || rec.Dados.BancoNome != "Bradesco" {
		t.Errorf("extracted data not decoded: %+v", rec.Dados)
	}
	if rec.Dados.Valor == nil || *rec.Dados.Valor != 260.35 {
		t.Errorf("valor not decoded: %+v", rec.Dados.Valor)
	}
	if rec.Validacao == nil || rec.Validacao.Valido == nil || !*rec.Validacao.Valido {
		t.Errorf("validation not decoded: %+v", rec.Validacao)
	}
	if rec.Fraude == nil || rec.Fraude.ClassePredita == nil || *rec.Fraude.ClassePredita != 1 {
		t.Errorf("fraud analysis not decoded: %+v", rec.Fraude)
	}
	if rec.ResultadoFinal == nil || rec.ResultadoFinal.IsFraudulento {
		t.Errorf("final result not decoded: %+v", rec.ResultadoFinal)
	}
}

func TestDecodeRecordCamelCase(t *testing.T) {
	raw := []byte(`{
		"dadosExtraidos": {
			"linhaDigitavel": "123",
			"codigoBanco": 341,
			"bancoNome": "Itaú",
			"beneficiarioCnpj": "00.000.000/0001-91"
		},
		"resultado_final": {"isFraudulento": true}
	}`)

	rec, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if rec.Dados == nil {
		t.Fatal("camelCase dados not decoded")
	}
	if rec.Dados.CodigoBanco != "341" {
		t.Errorf("numeric bank code should normalize to %q, got %q", "341", rec.Dados.CodigoBanco)
	}
	if rec.Dados.BeneficiarioCNPJ == "" {
		t.Error("camelCase cnpj not decoded")
	}
	if rec.ResultadoFinal == nil || !rec.ResultadoFinal.IsFraudulento {
		t.Error("camelCase verdict not decoded")
	}
}

func TestDecodeRecordVerdictFoldedIntoFinalResult(t *testing.T) {
	raw := []byte(`{"resultado_final": {"is_fraudulento": true, "classe_predita": 0, "confianca": 0.88}}`)

	rec, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if rec.Fraude == nil || rec.Fraude.ClassePredita == nil || *rec.Fraude.ClassePredita != 0 {
		t.Errorf("ML verdict folded into resultado_final not recovered: %+v", rec.Fraude)
	}
	if rec.Fraude.Confianca != 0.88 {
		t.Errorf("confidence = %v", rec.Fraude.Confianca)
	}
}

func TestDecodeRecordValorAsString(t *testing.T) {
	raw := []byte(`{"dados_extraidos": {"valor": "150.00"}}`)
	rec, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if rec.Dados.Valor == nil || *rec.Dados.Valor != 150 {
		t.Errorf("string valor not coerced: %+v", rec.Dados.Valor)
	}
}

func TestHasContent(t *testing.T) {
	var nilRec *Record
	if nilRec.HasContent() {
		t.Error("nil record has no content")
	}
	if (&Record{}).HasContent() {
		t.Error("empty record has no content")
	}
	if !(&Record{Dados: &ExtractedData{}}).HasContent() {
		t.Error("a present dados_extraidos object counts as content, even when empty")
	}
	if !(&Record{ResultadoFinal: &FinalResult{}}).HasContent() {
		t.Error("a present resultado_final counts as content")
	}
}

func TestIsFraudulentoDefaultsOpen(t *testing.T) {
	if (&Record{}).IsFraudulento() {
		t.Error("missing verdict presumes authentic")
	}
	if !(&Record{ResultadoFinal: &FinalResult{IsFraudulento: true}}).IsFraudulento() {
		t.Error("explicit verdict must carry through")
	}
}

func TestDecodeHistoryBareArray(t *testing.T) {
	raw := []byte(`[{"id": "a1"}, {"id": "a2"}]`)
	recs, err := DecodeHistory(raw)
	if err != nil {
		t.Fatalf("DecodeHistory: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "a1" || recs[1].ID != "a2" {
		t.Errorf("unexpected history: %+v", recs)
	}
}

func TestDecodeHistoryEnvelope(t *testing.T) {
	raw := []byte(`{"analises": [{"id": "a1", "criado_em": "2026-08-01"}]}`)
	recs, err := DecodeHistory(raw)
	if err != nil {
		t.Fatalf("DecodeHistory: %v", err)
	}
	if len(recs) != 1 || recs[0].CreatedAt != "2026-08-01" {
		t.Errorf("unexpected history: %+v", recs)
	}
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildRecordJSONSchema()

	if err := ValidateJSONAgainstSchema(schema, []byte(`{}`)); err != nil {
		t.Errorf("empty record is valid by contract: %v", err)
	}
	good := []byte(`{"dados_extraidos": {"codigo_banco": "237", "valor": 10.5}}`)
	if err := ValidateJSONAgainstSchema(schema, good); err != nil {
		t.Errorf("well-formed record rejected: %v", err)
	}
	bad := []byte(`{"validacao": {"valido": "yes"}}`)
	if err := ValidateJSONAgainstSchema(schema, bad); err == nil {
		t.Error("expected a schema violation for non-boolean valido")
	}
}
