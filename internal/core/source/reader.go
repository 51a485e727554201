package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding é uma codificação candidata para arquivos de texto delimitado.
type Encoding struct {
	Name   string
	Enc    encoding.Encoding
	Strict bool // rejeita bytes inválidos na codificação, em vez de substituí-los
}

var (
	UTF8   = Encoding{Name: "utf-8", Enc: xunicode.UTF8BOM, Strict: true}
	Latin1 = Encoding{Name: "iso-8859-1", Enc: charmap.ISO8859_1}
)

// DefaultEncodings devolve UTF-8 seguido do fallback ISO-8859-1.
func DefaultEncodings() []Encoding {
	return []Encoding{UTF8, Latin1}
}

// ReadTable lê o arquivo com o cabeçalho na primeira linha.
func ReadTable(path string, encodings []Encoding) (*domain.RawTable, error) {
	return ReadTableSkipping(path, encodings, 0)
}

// ReadTableSkipping lê o arquivo descartando as primeiras skip linhas antes do cabeçalho.
func ReadTableSkipping(path string, encodings []Encoding, skip int) (*domain.RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableFile, path, err)
	}

	var table *domain.RawTable
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		table, err = readXLSX(data, skip)
	case ".xls":
		table, err = readXLS(data, skip)
	default:
		table, err = readDelimited(data, encodings, skip)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableFile, path, err)
	}

	table.Source = path
	table.Fingerprint = xxhash.Sum64(data)
	return table, nil
}

func readDelimited(data []byte, encodings []Encoding, skip int) (*domain.RawTable, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings()
	}

	var errs []error
	for _, enc := range encodings {
		text, err := decodeText(data, enc)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", enc.Name, err))
			continue
		}
		table, err := parseDelimited(text, skip)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", enc.Name, err))
			continue
		}
		table.Encoding = enc.Name
		return table, nil
	}
	return nil, errors.Join(errs...)
}

func decodeText(data []byte, enc Encoding) (string, error) {
	if enc.Enc == nil {
		return "", fmt.Errorf("codificação %s sem decodificador", enc.Name)
	}
	if enc.Strict && !utf8.Valid(data) {
		return "", fmt.Errorf("bytes inválidos para %s", enc.Name)
	}
	out, _, err := transform.Bytes(enc.Enc.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// parseDelimited monta a tabela a partir do texto já decodificado.
// Linhas malformadas são descartadas e contadas, nunca abortam a leitura.
func parseDelimited(text string, skip int) (*domain.RawTable, error) {
	lines := strings.SplitAfter(text, "\n")
	if skip > 0 {
		if skip >= len(lines) {
			return nil, errors.New("arquivo sem cabeçalho")
		}
		lines = lines[skip:]
	}
	body := strings.Join(lines, "")

	reader := csv.NewReader(strings.NewReader(body))
	reader.Comma = sniffDelimiter(body)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	table := &domain.RawTable{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				table.Skipped++
				continue
			}
			return nil, err
		}

		if table.Headers == nil {
			table.Headers = cleanHeaders(record)
			continue
		}

		row, ok := alignRow(record, len(table.Headers))
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
		return nil, errors.New("arquivo sem cabeçalho")
	}
	return table, nil
}

// sniffDelimiter escolhe entre ';', ',' e tab pela primeira linha não vazia.
func sniffDelimiter(body string) rune {
	var first string
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			first = line
			break
		}
	}
	best, bestCount := ';', strings.Count(first, ";")
	for _, d := range []rune{',', '\t'} {
		if n := strings.Count(first, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func cleanHeaders(record []string) []string {
	headers := make([]string, len(record))
	for i, h := range record {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return headers
}

// alignRow ajusta a linha de texto à largura do cabeçalho.
func alignRow(record []string, width int) ([]domain.Cell, bool) {
	cells := make([]domain.Cell, len(record))
	for i, v := range record {
		cells[i] = domain.TextCell(v)
	}
	return alignCells(cells, width)
}

// alignCells completa linhas curtas; linhas longas só são aceitas quando o excedente
// está vazio (delimitador final).
func alignCells(cells []domain.Cell, width int) ([]domain.Cell, bool) {
	if len(cells) > width {
		if !blankRow(cells[width:]) {
			return nil, false
		}
		cells = cells[:width]
	}
	row := make([]domain.Cell, width)
	copy(row, cells)
	return row, true
}

func blankRow(row []domain.Cell) bool {
	for _, c := range row {
		if c.Numeric || strings.TrimSpace(c.Text) != "" {
			return false
		}
	}
	return true
}
