package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var frameFields = []domain.Field{
	domain.FieldLoja,
	domain.FieldMes,
	domain.FieldVenda,
	domain.FieldMeta,
	domain.FieldMargemPerc,
	domain.FieldClientes,
}

var frameTypes = map[string]series.Type{
	string(domain.FieldVenda):      series.Float,
	string(domain.FieldMeta):       series.Float,
	string(domain.FieldMargemPerc): series.Float,
	string(domain.FieldClientes):   series.Int,
}

// Columns lista as colunas da tabela exportada: campos canônicos presentes seguidos das
// colunas não mapeadas, na ordem do arquivo. Os nomes saem únicos e não vazios, pois o
// DataFrame renomearia repetidos por conta própria.
func Columns(table *domain.NormalizedTable) []string {
	var cols []string
	for _, f := range frameFields {
		if table.Has(f) {
			cols = append(cols, string(f))
		}
	}
	if table != nil {
		cols = append(cols, table.Extra...)
	}
	return uniqueNames(cols)
}

// uniqueNames preenche nomes vazios com "Coluna_<posição>" e numera repetições
// ("Loja", "Loja_2", ...).
func uniqueNames(names []string) []string {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Coluna_%d", i+1)
		}
		candidate := name
		for n := 2; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}

// Records converte a tabela normalizada em linhas de texto com cabeçalho.
func Records(table *domain.NormalizedTable) [][]string {
	records := [][]string{Columns(table)}
	if table == nil {
		return records
	}
	for _, rec := range table.Rows {
		var row []string
		for _, f := range frameFields {
			if table.Has(f) {
				row = append(row, fieldText(rec, f))
			}
		}
		for i := range table.Extra {
			if i < len(rec.Extra) {
				row = append(row, rec.Extra[i].String())
			} else {
				row = append(row, "")
			}
		}
		records = append(records, row)
	}
	return records
}

// Frame carrega a tabela normalizada num DataFrame com tipos fixos para os campos
// numéricos; o restante fica como texto.
func Frame(table *domain.NormalizedTable) (dataframe.DataFrame, error) {
	return loadFrame(Records(table), frameTypes)
}

func loadFrame(records [][]string, types map[string]series.Type) (dataframe.DataFrame, error) {
	if len(records[0]) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("tabela sem colunas")
	}
	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return df, fmt.Errorf("falha ao montar tabela: %w", df.Err)
	}
	return df, nil
}

// Rows devolve as linhas como mapas coluna -> valor, prontas para JSON.
func Rows(table *domain.NormalizedTable) ([]map[string]interface{}, error) {
	if table == nil || len(table.Rows) == 0 {
		return []map[string]interface{}{}, nil
	}
	df, err := Frame(table)
	if err != nil {
		return nil, err
	}
	return df.Maps(), nil
}

// CSV escreve a tabela normalizada em CSV. Sem linhas, sai apenas o cabeçalho.
func CSV(table *domain.NormalizedTable) ([]byte, error) {
	var buf bytes.Buffer
	if table == nil || len(table.Rows) == 0 {
		w := csv.NewWriter(&buf)
		w.Write(Columns(table))
		w.Flush()
		return buf.Bytes(), w.Error()
	}
	// Tudo como texto: o gota formataria floats com seis casas.
	df, err := loadFrame(Records(table), nil)
	if err != nil {
		return nil, err
	}
	if err := df.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("falha ao gerar CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func fieldText(rec domain.Record, f domain.Field) string {
	switch f {
	case domain.FieldLoja:
		return rec.Loja
	case domain.FieldMes:
		return rec.Mes
	case domain.FieldVenda:
		return strconv.FormatFloat(rec.Venda, 'f', -1, 64)
	case domain.FieldMeta:
		return strconv.FormatFloat(rec.Meta, 'f', -1, 64)
	case domain.FieldMargemPerc:
		return strconv.FormatFloat(rec.MargemPerc, 'f', -1, 64)
	case domain.FieldClientes:
		return strconv.FormatInt(rec.Clientes, 10)
	}
	return ""
}
