package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/LuisEduardoPedra/painelVendas/internal/core/normalize"
	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
)

// MonthOrder é a ordem canônica dos meses nas séries mensais.
var MonthOrder = []string{"JAN", "FEV", "MAR", "ABR", "MAI", "JUN", "JUL", "AGO", "SET", "OUT", "NOV", "DEZ"}

var monthRank = func() map[string]int {
	rank := make(map[string]int, len(MonthOrder))
	for i, m := range MonthOrder {
		rank[m] = i
	}
	return rank
}()

// FallbackHierarchyRows é quantas linhas o gráfico de classificação mostra quando o nível
// pedido não tem dados.
const FallbackHierarchyRows = 100

// Service calcula KPIs e séries agrupadas sobre a base normalizada.
type Service interface {
	Apply(table *domain.NormalizedTable, filter domain.Filter) *domain.NormalizedTable
	Snapshot(table *domain.NormalizedTable, filter domain.Filter) domain.KPISnapshot
	Total(view *domain.NormalizedTable, field domain.Field) float64
	MeanMargin(view *domain.NormalizedTable) float64
	TicketAverage(view *domain.NormalizedTable) float64
	AttainmentRatio(view *domain.NormalizedTable) float64
	GroupByMonth(view *domain.NormalizedTable, fields ...domain.Field) domain.Series
	GroupByStore(view *domain.NormalizedTable, field domain.Field, topN int) domain.Series
	GroupByHierarchyLevel(rows []domain.HierarchyRow, level int, minSales float64) domain.Series
	Months(table *domain.NormalizedTable) []string
	Stores(table *domain.NormalizedTable) []string
}

type service struct{}

func NewService() Service {
	return &service{}
}

// IsAll informa se a seleção não restringe nada ("", "all", "todos", "todas").
func IsAll(selection string) bool {
	switch strings.ToLower(strings.TrimSpace(selection)) {
	case "", "all", "todos", "todas":
		return true
	}
	return false
}

// Apply devolve uma nova tabela com as linhas da seleção ativa. Filtros sobre colunas
// ausentes são ignorados.
func (s *service) Apply(table *domain.NormalizedTable, filter domain.Filter) *domain.NormalizedTable {
	if table == nil {
		return &domain.NormalizedTable{Present: map[domain.Field]bool{}}
	}
	byMes := !IsAll(filter.Mes) && table.Has(domain.FieldMes)
	byLoja := !IsAll(filter.Loja) && table.Has(domain.FieldLoja)
	mes := normalize.MonthLabel(filter.Mes)
	loja := normalize.StoreLabel(filter.Loja)

	view := &domain.NormalizedTable{Present: table.Present, Extra: table.Extra}
	view.Rows = make([]domain.Record, 0, len(table.Rows))
	for _, rec := range table.Rows {
		if byMes && rec.Mes != mes {
			continue
		}
		if byLoja && !strings.EqualFold(rec.Loja, loja) {
			continue
		}
		view.Rows = append(view.Rows, rec)
	}
	return view
}

func (s *service) Snapshot(table *domain.NormalizedTable, filter domain.Filter) domain.KPISnapshot {
	view := s.Apply(table, filter)
	return domain.KPISnapshot{
		VendaTotal:    s.Total(view, domain.FieldVenda),
		MetaTotal:     s.Total(view, domain.FieldMeta),
		MargemMedia:   s.MeanMargin(view),
		ClientesTotal: s.Total(view, domain.FieldClientes),
		TicketMedio:   s.TicketAverage(view),
		Atingimento:   s.AttainmentRatio(view),
		Linhas:        len(view.Rows),
	}
}

func (s *service) Total(view *domain.NormalizedTable, field domain.Field) float64 {
	if !view.Has(field) {
		return 0
	}
	total := 0.0
	for _, rec := range view.Rows {
		total += value(rec, field)
	}
	return total
}

// MeanMargin é a média simples da margem, sem ponderar pelo volume de venda.
func (s *service) MeanMargin(view *domain.NormalizedTable) float64 {
	if !view.Has(domain.FieldMargemPerc) || len(view.Rows) == 0 {
		return 0
	}
	return s.Total(view, domain.FieldMargemPerc) / float64(len(view.Rows))
}

func (s *service) TicketAverage(view *domain.NormalizedTable) float64 {
	return safeDiv(s.Total(view, domain.FieldVenda), s.Total(view, domain.FieldClientes))
}

// AttainmentRatio é venda/meta sem limite; o teto é aplicado só na exibição.
func (s *service) AttainmentRatio(view *domain.NormalizedTable) float64 {
	return safeDiv(s.Total(view, domain.FieldVenda), s.Total(view, domain.FieldMeta))
}

func (s *service) GroupByMonth(view *domain.NormalizedTable, fields ...domain.Field) domain.Series {
	series := domain.Series{Columns: fieldNames(fields), Points: []domain.SeriesPoint{}}
	if !view.Has(domain.FieldMes) {
		return series
	}
	series.Points = groupSum(view, fields, func(rec domain.Record) string { return rec.Mes })
	sort.SliceStable(series.Points, func(i, j int) bool {
		return rankMonth(series.Points[i].Key) < rankMonth(series.Points[j].Key)
	})
	return series
}

// GroupByStore soma o campo por loja em ordem crescente (empates pela ordem de aparição).
// Com topN > 0 mantém apenas as topN últimas linhas, isto é, os maiores valores.
func (s *service) GroupByStore(view *domain.NormalizedTable, field domain.Field, topN int) domain.Series {
	series := domain.Series{Columns: fieldNames([]domain.Field{field}), Points: []domain.SeriesPoint{}}
	if !view.Has(domain.FieldLoja) {
		return series
	}
	points := groupSum(view, []domain.Field{field}, func(rec domain.Record) string { return rec.Loja })
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Values[0] < points[j].Values[0]
	})
	if topN > 0 && len(points) > topN {
		points = points[len(points)-topN:]
	}
	series.Points = points
	return series
}

// GroupByHierarchyLevel devolve as linhas do nível pedido com venda acima de minSales.
// Sem linhas nesse nível, devolve as 100 maiores vendas de todos os níveis, em ordem
// decrescente, para que o gráfico nunca fique vazio com um arquivo mal preenchido.
func (s *service) GroupByHierarchyLevel(rows []domain.HierarchyRow, level int, minSales float64) domain.Series {
	series := domain.Series{
		Columns: []string{string(domain.FieldValor), string(domain.FieldParticPerc), string(domain.FieldLucroPerc)},
		Points:  []domain.SeriesPoint{},
	}

	var selected []domain.HierarchyRow
	for _, h := range rows {
		if h.Nivel == level && h.Valor > minSales {
			selected = append(selected, h)
		}
	}

	if len(selected) == 0 {
		for _, h := range rows {
			if h.Valor > minSales {
				selected = append(selected, h)
			}
		}
		sort.SliceStable(selected, func(i, j int) bool {
			return selected[i].Valor > selected[j].Valor
		})
		if len(selected) > FallbackHierarchyRows {
			selected = selected[:FallbackHierarchyRows]
		}
	}

	for _, h := range selected {
		series.Points = append(series.Points, domain.SeriesPoint{
			Key:    hierarchyLabel(h),
			Values: []float64{h.Valor, h.PartPerc, h.LucroPerc},
		})
	}
	return series
}

// Months lista os meses presentes na ordem canônica; rótulos desconhecidos vão ao final.
func (s *service) Months(table *domain.NormalizedTable) []string {
	if !table.Has(domain.FieldMes) {
		return []string{}
	}
	months := distinct(table.Rows, func(rec domain.Record) string { return rec.Mes })
	sort.SliceStable(months, func(i, j int) bool {
		return rankMonth(months[i]) < rankMonth(months[j])
	})
	return months
}

// Stores lista as lojas presentes em ordem alfabética.
func (s *service) Stores(table *domain.NormalizedTable) []string {
	if !table.Has(domain.FieldLoja) {
		return []string{}
	}
	stores := distinct(table.Rows, func(rec domain.Record) string { return rec.Loja })
	sort.Strings(stores)
	return stores
}

// DisplayAttainment converte a razão de atingimento em porcentagem para exibição,
// limitada ao teto do mostrador. A razão armazenada nunca é alterada.
func DisplayAttainment(ratio, capPercent float64) float64 {
	pct := ratio * 100
	if capPercent > 0 && pct > capPercent {
		pct = capPercent
	}
	return round(pct, 2)
}

func value(rec domain.Record, field domain.Field) float64 {
	switch field {
	case domain.FieldVenda:
		return rec.Venda
	case domain.FieldMeta:
		return rec.Meta
	case domain.FieldMargemPerc:
		return rec.MargemPerc
	case domain.FieldClientes:
		return float64(rec.Clientes)
	}
	return 0
}

func groupSum(view *domain.NormalizedTable, fields []domain.Field, key func(domain.Record) string) []domain.SeriesPoint {
	index := make(map[string]int)
	points := []domain.SeriesPoint{}
	for _, rec := range view.Rows {
		k := key(rec)
		i, ok := index[k]
		if !ok {
			i = len(points)
			index[k] = i
			points = append(points, domain.SeriesPoint{Key: k, Values: make([]float64, len(fields))})
		}
		for j, f := range fields {
			if view.Has(f) {
				points[i].Values[j] += value(rec, f)
			}
		}
	}
	return points
}

func distinct(rows []domain.Record, key func(domain.Record) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, rec := range rows {
		k := key(rec)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func rankMonth(label string) int {
	if r, ok := monthRank[label]; ok {
		return r
	}
	return len(MonthOrder)
}

func fieldNames(fields []domain.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return names
}

func hierarchyLabel(h domain.HierarchyRow) string {
	if h.Grupo == "" {
		return h.Codigo
	}
	return h.Codigo + " " + h.Grupo
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func round(val float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(val*pow) / pow
}
