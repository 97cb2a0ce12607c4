// Package verify derives the pass/warn/fail checklist shown for a
// completed analysis. Derivation is a pure function of the record: no
// I/O, no mutation, so the same record always yields the same report.
package verify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/detectabb/detectago/constants"
	"github.com/detectabb/detectago/internal/analysis"
)

// Status classifies a single verification check.
type Status string

const (
	StatusOK    Status = "ok"
	StatusAlert Status = "alerta"
	StatusError Status = "erro"
)

// Check is one named verification with its outcome and display value.
type Check struct {
	Item   string
	Status Status
	Detail string
	Value  string
}

// Report is the full derived checklist with its aggregate score.
type Report struct {
	Checks   []Check
	ChecksOK int
	Score    int
	IsFraud  bool
}

// Verdict returns the banner line for the overall result.
func (r Report) Verdict() string {
	if r.IsFraud {
		return "✗ Boleto Possivelmente Falso"
	}
	return "✓ Boleto Possivelmente Autêntico"
}

const notIdentified = "Não identificado"

// Derive builds the ordered checklist from an analysis record. The
// order is fixed for presentation stability. Absent fields degrade
// into failing or warning checks rather than errors, so a report is
// produced for any record, including an empty one.
func Derive(rec *analysis.Record) Report {
	var dados analysis.ExtractedData
	if rec != nil && rec.Dados != nil {
		dados = *rec.Dados
	}

	checks := []Check{
		checkLinhaDigitavel(dados.LinhaDigitavel),
		checkCodigoBanco(dados.CodigoBanco, dados.BancoNome),
		checkValor(dados.Valor),
		checkVencimento(dados.Vencimento),
	}
	if c, ok := checkCNPJ(dados.BeneficiarioCNPJ); ok {
		checks = append(checks, c)
	}
	if rec != nil && rec.Validacao != nil && rec.Validacao.Valido != nil {
		checks = append(checks, checkRegras(*rec.Validacao))
	}
	if rec != nil && rec.Fraude != nil && rec.Fraude.ClassePredita != nil {
		checks = append(checks, checkIA(*rec.Fraude))
	}

	ok := 0
	for _, c := range checks {
		if c.Status == StatusOK {
			ok++
		}
	}
	score := 0
	if len(checks) > 0 {
		score = int(float64(ok)/float64(len(checks))*100 + 0.5)
	}

	return Report{
		Checks:   checks,
		ChecksOK: ok,
		Score:    score,
		IsFraud:  rec.IsFraudulento(),
	}
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func checkLinhaDigitavel(linha string) Check {
	if linha == "" {
		return Check{
			Item:   "Linha Digitável",
			Status: StatusError,
			Detail: "Não foi possível extrair a linha digitável",
			Value:  "Não identificada",
		}
	}
	digits := onlyDigits(linha)
	if len(digits) == 47 {
		return Check{
			Item:   "Linha Digitável",
			Status: StatusOK,
			Detail: "Formato válido com 47 dígitos",
			Value:  linha,
		}
	}
	return Check{
		Item:   "Linha Digitável",
		Status: StatusError,
		Detail: fmt.Sprintf("Apenas %d dígitos (esperado: 47)", len(digits)),
		Value:  linha,
	}
}

func checkCodigoBanco(codigo, nome string) Check {
	if codigo == "" {
		return Check{
			Item:   "Código do Banco",
			Status: StatusError,
			Detail: "Não foi possível identificar o banco",
			Value:  notIdentified,
		}
	}
	if nome == "" {
		nome = "Desconhecido"
	}
	value := codigo + " - " + nome

	n, err := strconv.Atoi(strings.TrimSpace(codigo))
	if err == nil && constants.IsKnownBank(n) {
		return Check{
			Item:   "Código do Banco",
			Status: StatusOK,
			Detail: "Banco reconhecido pela FEBRABAN",
			Value:  value,
		}
	}
	return Check{
		Item:   "Código do Banco",
		Status: StatusAlert,
		Detail: "Código não reconhecido",
		Value:  value,
	}
}

func checkValor(valor *float64) Check {
	if valor == nil || *valor <= 0 {
		return Check{
			Item:   "Valor do Boleto",
			Status: StatusError,
			Detail: "Valor não identificado",
			Value:  notIdentified,
		}
	}

	status, detail := StatusOK, "Valor dentro da faixa esperada"
	switch {
	case *valor < 20:
		status, detail = StatusAlert, "Valor muito baixo - verifique se está correto"
	case *valor > 5000:
		status, detail = StatusAlert, "Valor alto - confirme com a empresa"
	}
	return Check{
		Item:   "Valor do Boleto",
		Status: status,
		Detail: detail,
		Value:  FormatValor(*valor),
	}
}

func checkVencimento(vencimento string) Check {
	if vencimento == "" {
		return Check{
			Item:   "Vencimento",
			Status: StatusAlert,
			Detail: "Data não identificada",
			Value:  notIdentified,
		}
	}
	return Check{
		Item:   "Vencimento",
		Status: StatusOK,
		Detail: "Data identificada no documento",
		Value:  vencimento,
	}
}

func checkCNPJ(cnpj string) (Check, bool) {
	if cnpj == "" {
		return Check{}, false
	}
	return Check{
		Item:   "CNPJ do Beneficiário",
		Status: StatusOK,
		Detail: "CNPJ extraído do boleto",
		Value:  cnpj,
	}, true
}

func checkRegras(v analysis.Validation) Check {
	if *v.Valido {
		return Check{
			Item:   "Regras FEBRABAN",
			Status: StatusOK,
			Detail: "Todas as regras bancárias foram atendidas",
			Value:  "✓ Válido",
		}
	}
	n := len(v.Erros)
	detail := fmt.Sprintf("Encontrado %d erro", n)
	if n != 1 {
		detail = fmt.Sprintf("Encontrados %d erros", n)
	}
	return Check{
		Item:   "Regras FEBRABAN",
		Status: StatusError,
		Detail: detail,
		Value:  "✗ Inválido",
	}
}

func checkIA(fa analysis.FraudAnalysis) Check {
	confianca := int(fa.Confianca*100 + 0.5)
	if *fa.ClassePredita == 1 {
		return Check{
			Item:   "Inteligência Artificial",
			Status: StatusOK,
			Detail: "Modelo treinado com milhares de boletos reais",
			Value:  fmt.Sprintf("✓ Autêntico (%d%%)", confianca),
		}
	}
	return Check{
		Item:   "Inteligência Artificial",
		Status: StatusError,
		Detail: "Modelo treinado com milhares de boletos reais",
		Value:  fmt.Sprintf("✗ Suspeito (%d%%)", confianca),
	}
}

// FormatValor renders a monetary value the Brazilian way (R$ 150,00).
func FormatValor(v float64) string {
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}
