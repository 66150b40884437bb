// Package export gera planilhas XLSX da listagem de alunos.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
)

// ContentType das planilhas geradas
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Students"

// Headers são os títulos das colunas, já traduzidos
type Headers struct {
	Name      string
	Email     string
	CPF       string
	RA        string
	CreatedAt string
}

// WriteStudentsXLSX escreve os alunos em w, uma linha por aluno
func WriteStudentsXLSX(w io.Writer, students []*entities.User, headers Headers) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 36)
	_ = f.SetColWidth(sheetName, "B", "B", 34)
	_ = f.SetColWidth(sheetName, "C", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "D", 16)
	_ = f.SetColWidth(sheetName, "E", "E", 22)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := []any{headers.Name, headers.Email, headers.CPF, headers.RA, headers.CreatedAt}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, s := range students {
		ra := ""
		if s.RA != nil {
			ra = *s.RA
		}

		row := []any{s.Name, s.Email.String(), s.CPF.String(), ra, s.CreatedAt.UTC().Format(time.RFC3339)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// FileName gera o nome do anexo com a data da exportação
func FileName(now time.Time) string {
	return fmt.Sprintf("students-%s.xlsx", now.UTC().Format("20060102-150405"))
}
