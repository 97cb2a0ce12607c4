package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/detectabb/detectago/internal/analysis"
	"github.com/detectabb/detectago/internal/verify"
)

// Service produces XLSX bytes from the analysis history. Score and
// verdict columns are derived per record with the same checklist the
// result view uses.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// HistoryXLSX returns an XLSX workbook (as bytes) for the given records.
func (s *Service) HistoryXLSX(recs []*analysis.Record) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Análises"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop excelize's default sheet so the workbook opens on ours.
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Data",
		"Banco",
		"Valor",
		"Vencimento",
		"Verificações Aprovadas",
		"Score",
		"Veredito",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, rec := range recs {
		report := verify.Derive(rec)

		banco := ""
		valor := ""
		vencimento := ""
		if rec.Dados != nil {
			banco = rec.Dados.CodigoBanco
			if rec.Dados.BancoNome != "" {
				banco = banco + " - " + rec.Dados.BancoNome
			}
			if rec.Dados.Valor != nil {
				valor = verify.FormatValor(*rec.Dados.Valor)
			}
			vencimento = rec.Dados.Vencimento
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, rec.CreatedAt)
		write(2, banco)
		write(3, valor)
		write(4, vencimento)
		write(5, fmt.Sprintf("%d de %d", report.ChecksOK, len(report.Checks)))
		write(6, fmt.Sprintf("%d%%", report.Score))
		write(7, report.Verdict())
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.history.ok",
		"records", len(recs),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
