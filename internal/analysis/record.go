package analysis

// ExtractedData holds the fields the backend managed to read off the
// document. Every field is optional; absence is meaningful to the
// verification checks, not an error.
type ExtractedData struct {
	LinhaDigitavel   string   `json:"linha_digitavel,omitempty"`
	CodigoBanco      string   `json:"codigo_banco,omitempty"`
	BancoNome        string   `json:"banco_nome,omitempty"`
	Valor            *float64 `json:"valor,omitempty"`
	Vencimento       string   `json:"vencimento,omitempty"`
	BeneficiarioCNPJ string   `json:"beneficiario_cnpj,omitempty"`
}

// Validation is the outcome of the backend's formal FEBRABAN rule checks.
type Validation struct {
	Valido *bool    `json:"valido,omitempty"`
	Erros  []string `json:"erros,omitempty"`
}

// FraudAnalysis is the ML verdict. ClassePredita 1 means authentic.
type FraudAnalysis struct {
	ClassePredita *int    `json:"classe_predita,omitempty"`
	Confianca     float64 `json:"confianca,omitempty"`
}

// FinalResult is the backend's overall verdict flag.
type FinalResult struct {
	IsFraudulento bool `json:"is_fraudulento"`
}

// Record is a single analysis as persisted by the backend. All
// sub-objects are optional; a record fresh off the queue may carry none.
type Record struct {
	ID             string         `json:"id,omitempty"`
	CreatedAt      string         `json:"criado_em,omitempty"`
	Dados          *ExtractedData `json:"dados_extraidos,omitempty"`
	Validacao      *Validation    `json:"validacao,omitempty"`
	Fraude         *FraudAnalysis `json:"fraude_analise,omitempty"`
	ResultadoFinal *FinalResult   `json:"resultado_final,omitempty"`
}

// HasContent reports whether the backend has produced anything usable
// yet. Polling treats a record without extracted data and without a
// final verdict as still in flight.
func (r *Record) HasContent() bool {
	if r == nil {
		return false
	}
	return r.Dados != nil || r.ResultadoFinal != nil
}

// IsFraudulento returns the overall verdict, presuming authentic when
// the backend omitted the final result entirely.
func (r *Record) IsFraudulento() bool {
	if r == nil || r.ResultadoFinal == nil {
		return false
	}
	return r.ResultadoFinal.IsFraudulento
}
