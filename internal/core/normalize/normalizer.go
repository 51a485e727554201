package normalize

import (
	"strings"

	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
)

// Report resume a normalização: quantas células preenchidas viraram zero, por campo.
type Report struct {
	Rows      int
	Fallbacks map[domain.Field]int
}

// TotalFallbacks soma as células zeradas de todos os campos.
func (r Report) TotalFallbacks() int {
	total := 0
	for _, n := range r.Fallbacks {
		total += n
	}
	return total
}

var baseFields = map[domain.Field]bool{
	domain.FieldVenda:      true,
	domain.FieldMeta:       true,
	domain.FieldMargemPerc: true,
	domain.FieldClientes:   true,
	domain.FieldLoja:       true,
	domain.FieldMes:        true,
}

// Normalize converte as colunas canônicas mapeadas em valores tipados. Colunas não
// mapeadas seguem como estão, na ordem original.
func Normalize(table *domain.RawTable, mapping []domain.ColumnMapping) (*domain.NormalizedTable, Report) {
	idx := make(map[domain.Field]int)
	mapped := make(map[int]bool)
	for _, m := range mapping {
		if !baseFields[m.Field] {
			continue
		}
		idx[m.Field] = m.Index
		mapped[m.Index] = true
	}

	out := &domain.NormalizedTable{Present: make(map[domain.Field]bool, len(idx))}
	for f := range idx {
		out.Present[f] = true
	}
	var extraIdx []int
	for i, h := range table.Headers {
		if !mapped[i] {
			extraIdx = append(extraIdx, i)
			out.Extra = append(out.Extra, h)
		}
	}

	report := Report{Fallbacks: make(map[domain.Field]int)}
	stores := make(map[string]string)
	out.Rows = make([]domain.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := domain.Record{}
		if i, ok := idx[domain.FieldVenda]; ok {
			rec.Venda = currencyField(row[i], domain.FieldVenda, &report)
		}
		if i, ok := idx[domain.FieldMeta]; ok {
			rec.Meta = currencyField(row[i], domain.FieldMeta, &report)
		}
		if i, ok := idx[domain.FieldMargemPerc]; ok {
			v, ok := parsePercentage(row[i])
			if !ok {
				report.Fallbacks[domain.FieldMargemPerc]++
			}
			rec.MargemPerc = v
		}
		if i, ok := idx[domain.FieldClientes]; ok {
			v, ok := parseCount(row[i])
			if !ok {
				report.Fallbacks[domain.FieldClientes]++
			}
			rec.Clientes = v
		}
		if i, ok := idx[domain.FieldLoja]; ok {
			rec.Loja = storeName(stores, row[i].String())
		}
		if i, ok := idx[domain.FieldMes]; ok {
			rec.Mes = MonthLabel(row[i].String())
		}
		if len(extraIdx) > 0 {
			rec.Extra = make([]domain.Cell, len(extraIdx))
			for j, i := range extraIdx {
				rec.Extra[j] = row[i]
			}
		}
		out.Rows = append(out.Rows, rec)
	}
	report.Rows = len(out.Rows)
	return out, report
}

func currencyField(c domain.Cell, f domain.Field, report *Report) float64 {
	v, ok := parseCurrency(c)
	if !ok {
		report.Fallbacks[f]++
	}
	return v
}

// StoreLabel remove espaços das bordas e colapsa os internos ("  Loja   Centro " -> "Loja Centro").
func StoreLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// storeName unifica grafias que só diferem em maiúsculas: a primeira vista vale para todas.
func storeName(seen map[string]string, raw string) string {
	label := StoreLabel(raw)
	key := strings.ToLower(label)
	if first, ok := seen[key]; ok {
		return first
	}
	seen[key] = label
	return label
}

// MonthLabel padroniza o rótulo de mês ("jan " -> "JAN").
func MonthLabel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Level devolve a profundidade de um código hierárquico: pontos + 1.
func Level(code string) int {
	return strings.Count(code, ".") + 1
}

// Hierarchy converte a tabela de classificação já mapeada. Devolve nil quando a coluna
// de classificação não existe; linhas sem código são descartadas.
func Hierarchy(table *domain.RawTable, mapping []domain.ColumnMapping) ([]domain.HierarchyRow, Report) {
	idx := make(map[domain.Field]int)
	for _, m := range mapping {
		idx[m.Field] = m.Index
	}
	report := Report{Fallbacks: make(map[domain.Field]int)}

	codeIdx, ok := idx[domain.FieldClassificacao]
	if !ok {
		return nil, report
	}

	rows := make([]domain.HierarchyRow, 0, len(table.Rows))
	for _, row := range table.Rows {
		code := strings.TrimSpace(row[codeIdx].String())
		if code == "" {
			continue
		}
		h := domain.HierarchyRow{Codigo: code, Nivel: Level(code)}
		if i, ok := idx[domain.FieldGrupo]; ok {
			h.Grupo = strings.TrimSpace(row[i].String())
		}
		if i, ok := idx[domain.FieldValor]; ok {
			h.Valor = currencyField(row[i], domain.FieldValor, &report)
		}
		if i, ok := idx[domain.FieldParticPerc]; ok {
			v, ok := parsePercentage(row[i])
			if !ok {
				report.Fallbacks[domain.FieldParticPerc]++
			}
			h.PartPerc = v
		}
		if i, ok := idx[domain.FieldLucroPerc]; ok {
			v, ok := parsePercentage(row[i])
			if !ok {
				report.Fallbacks[domain.FieldLucroPerc]++
			}
			h.LucroPerc = v
		}
		rows = append(rows, h)
	}
	report.Rows = len(rows)
	return rows, report
}
