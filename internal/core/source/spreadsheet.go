package source

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// Texto como "13.514" é milhar brasileiro, não número decimal.
var thousandsOnlyRegex = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// readXLSX lê a primeira aba com valores brutos. Células numéricas viram números nativos;
// células com formato de porcentagem são convertidas para pontos percentuais.
func readXLSX(data []byte, skip int) (*domain.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("planilha sem abas")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	percentStyles := make(map[int]bool)
	grid := make([][]domain.Cell, len(rows))
	for r, row := range rows {
		cells := make([]domain.Cell, len(row))
		for c, value := range row {
			cells[c] = xlsxCell(f, sheet, r, c, value, percentStyles)
		}
		grid[r] = cells
	}

	table, err := buildTable(grid, skip)
	if err != nil {
		return nil, err
	}
	table.Encoding = "xlsx"
	return table, nil
}

func xlsxCell(f *excelize.File, sheet string, r, c int, value string, percentStyles map[int]bool) domain.Cell {
	if strings.TrimSpace(value) == "" {
		return domain.TextCell("")
	}
	axis, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return domain.TextCell(value)
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil || (typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset) {
		return domain.TextCell(value)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return domain.TextCell(value)
	}
	if styleID, err := f.GetCellStyle(sheet, axis); err == nil && isPercentStyle(f, styleID, percentStyles) {
		v *= 100
	}
	return domain.NumberCell(v)
}

func isPercentStyle(f *excelize.File, styleID int, cache map[int]bool) bool {
	if pct, ok := cache[styleID]; ok {
		return pct
	}
	pct := false
	if style, err := f.GetStyle(styleID); err == nil && style != nil {
		// 9 = "0%", 10 = "0.00%"
		pct = style.NumFmt == 9 || style.NumFmt == 10 ||
			(style.CustomNumFmt != nil && strings.Contains(*style.CustomNumFmt, "%"))
	}
	cache[styleID] = pct
	return pct
}

// readXLS lê a primeira aba de um .xls. Arquivos .xlsx salvos com extensão .xls
// são redirecionados para o leitor do excelize.
func readXLS(data []byte, skip int) (*domain.RawTable, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		if _, errX := excelize.OpenReader(bytes.NewReader(data)); errX == nil {
			return readXLSX(data, skip)
		}
		return nil, err
	}

	sheets := workbook.GetSheets()
	if len(sheets) == 0 {
		return nil, errors.New("planilha sem abas")
	}

	var grid [][]domain.Cell
	for _, row := range sheets[0].GetRows() {
		var cells []domain.Cell
		for _, cell := range row.GetCols() {
			cells = append(cells, xlsCell(cell.GetString()))
		}
		grid = append(grid, cells)
	}

	table, err := buildTable(grid, skip)
	if err != nil {
		return nil, err
	}
	table.Encoding = "xls"
	return table, nil
}

func xlsCell(value string) domain.Cell {
	s := strings.TrimSpace(value)
	if s == "" || thousandsOnlyRegex.MatchString(s) {
		return domain.TextCell(value)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return domain.ParsedCell(s, v)
	}
	return domain.TextCell(value)
}

// buildTable descarta skip linhas, usa a primeira linha não vazia seguinte como cabeçalho
// e alinha as demais à largura dele.
func buildTable(grid [][]domain.Cell, skip int) (*domain.RawTable, error) {
	if skip > len(grid) {
		skip = len(grid)
	}
	grid = grid[skip:]

	table := &domain.RawTable{}
	for _, cells := range grid {
		if table.Headers == nil {
			if blankRow(cells) {
				continue
			}
			headers := make([]string, len(cells))
			for i, c := range cells {
				headers[i] = c.String()
			}
			table.Headers = cleanHeaders(headers)
			continue
		}

		row, ok := alignCells(cells, len(table.Headers))
		if !ok {
			table.Skipped++
			continue
		}
		if blankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if table.Headers == nil {
		return nil, errors.New("planilha sem cabeçalho")
	}
	return table, nil
}
