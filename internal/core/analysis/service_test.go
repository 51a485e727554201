package analysis

import (
	"math"
	"reflect"
	"testing"

	"github.com/LuisEduardoPedra/painelVendas/internal/core/normalize"
	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
)

func baseTable(rows ...domain.Record) *domain.NormalizedTable {
	return &domain.NormalizedTable{
		Present: map[domain.Field]bool{
			domain.FieldVenda:      true,
			domain.FieldMeta:       true,
			domain.FieldMargemPerc: true,
			domain.FieldClientes:   true,
			domain.FieldLoja:       true,
			domain.FieldMes:        true,
		},
		Rows: rows,
	}
}

func TestSnapshot(t *testing.T) {
	svc := NewService()
	table := baseTable(
		domain.Record{Venda: 1000, Meta: 800, MargemPerc: 20, Clientes: 10, Loja: "Centro", Mes: "JAN"},
		domain.Record{Venda: 500, Meta: 700, MargemPerc: 30, Clientes: 5, Loja: "Norte", Mes: "FEV"},
	)

	t.Run("Sem filtro", func(t *testing.T) {
		k := svc.Snapshot(table, domain.Filter{Mes: "todos", Loja: "all"})
		if k.VendaTotal != 1500 || k.MetaTotal != 1500 || k.ClientesTotal != 15 || k.Linhas != 2 {
			t.Errorf("totais inesperados: %+v", k)
		}
		if k.TicketMedio != 100 || k.Atingimento != 1 || k.MargemMedia != 25 {
			t.Errorf("indicadores inesperados: %+v", k)
		}
	})

	t.Run("Filtro por mês e loja", func(t *testing.T) {
		k := svc.Snapshot(table, domain.Filter{Mes: "jan", Loja: "centro"})
		if k.VendaTotal != 1000 || k.Linhas != 1 || k.Atingimento != 1.25 {
			t.Errorf("indicadores inesperados: %+v", k)
		}
	})

	t.Run("Filtro sem correspondência", func(t *testing.T) {
		k := svc.Snapshot(table, domain.Filter{Mes: "DEZ"})
		if k != (domain.KPISnapshot{}) {
			t.Errorf("esperava indicadores zerados: %+v", k)
		}
	})
}

func TestZeroDenominators(t *testing.T) {
	svc := NewService()
	table := baseTable(domain.Record{Venda: 300, Loja: "Centro", Mes: "JAN"})

	if got := svc.TicketAverage(table); got != 0 {
		t.Errorf("ticket médio sem clientes deveria ser 0, obtive %v", got)
	}
	if got := svc.AttainmentRatio(table); got != 0 {
		t.Errorf("atingimento sem meta deveria ser 0, obtive %v", got)
	}

	empty := baseTable()
	for name, got := range map[string]float64{
		"ticket":      svc.TicketAverage(empty),
		"atingimento": svc.AttainmentRatio(empty),
		"margem":      svc.MeanMargin(empty),
	} {
		if got != 0 || math.IsNaN(got) {
			t.Errorf("%s sobre tabela vazia deveria ser 0, obtive %v", name, got)
		}
	}
}

func TestAbsentColumns(t *testing.T) {
	svc := NewService()
	table := &domain.NormalizedTable{
		Present: map[domain.Field]bool{domain.FieldVenda: true},
		Rows:    []domain.Record{{Venda: 10}, {Venda: 20}},
	}

	if got := svc.Total(table, domain.FieldMeta); got != 0 {
		t.Errorf("total de coluna ausente deveria ser 0, obtive %v", got)
	}
	view := svc.Apply(table, domain.Filter{Mes: "JAN", Loja: "Centro"})
	if len(view.Rows) != 2 {
		t.Errorf("filtro sobre coluna ausente deveria ser ignorado: %+v", view.Rows)
	}
	if s := svc.GroupByMonth(view, domain.FieldVenda); len(s.Points) != 0 {
		t.Errorf("série mensal sem coluna Mes deveria ser vazia: %+v", s)
	}
}

func TestGroupByMonth(t *testing.T) {
	svc := NewService()
	table := baseTable(
		domain.Record{Venda: 3, Mes: "MAR"},
		domain.Record{Venda: 1, Mes: "JAN"},
		domain.Record{Venda: 9, Mes: "13º"},
		domain.Record{Venda: 2, Mes: "FEV"},
		domain.Record{Venda: 4, Meta: 5, Mes: "JAN"},
	)

	s := svc.GroupByMonth(table, domain.FieldVenda, domain.FieldMeta)
	if want := []string{"JAN", "FEV", "MAR", "13º"}; !reflect.DeepEqual(s.Keys(), want) {
		t.Errorf("esperava %v, obtive %v", want, s.Keys())
	}
	if !reflect.DeepEqual(s.Points[0].Values, []float64{5, 5}) {
		t.Errorf("soma de JAN inesperada: %v", s.Points[0].Values)
	}
	if !reflect.DeepEqual(s.Columns, []string{"Venda", "Meta"}) {
		t.Errorf("colunas inesperadas: %v", s.Columns)
	}
}

func TestGroupByStore(t *testing.T) {
	svc := NewService()
	table := baseTable(
		domain.Record{Venda: 10, Loja: "A"},
		domain.Record{Venda: 50, Loja: "B"},
		domain.Record{Venda: 30, Loja: "C"},
		domain.Record{Venda: 5, Loja: "D"},
		domain.Record{Venda: 20, Loja: "E"},
	)

	t.Run("Top 3", func(t *testing.T) {
		s := svc.GroupByStore(table, domain.FieldVenda, 3)
		if want := []string{"E", "C", "B"}; !reflect.DeepEqual(s.Keys(), want) {
			t.Errorf("esperava %v, obtive %v", want, s.Keys())
		}
	})

	t.Run("Sem limite", func(t *testing.T) {
		s := svc.GroupByStore(table, domain.FieldVenda, 0)
		if want := []string{"D", "A", "E", "C", "B"}; !reflect.DeepEqual(s.Keys(), want) {
			t.Errorf("esperava %v, obtive %v", want, s.Keys())
		}
	})

	t.Run("Empates pela ordem de aparição", func(t *testing.T) {
		tied := baseTable(
			domain.Record{Venda: 10, Loja: "X"},
			domain.Record{Venda: 10, Loja: "Y"},
			domain.Record{Venda: 10, Loja: "Z"},
		)
		s := svc.GroupByStore(tied, domain.FieldVenda, 2)
		if want := []string{"Y", "Z"}; !reflect.DeepEqual(s.Keys(), want) {
			t.Errorf("esperava %v, obtive %v", want, s.Keys())
		}
	})
}

func TestStoreSpellings(t *testing.T) {
	svc := NewService()
	raw := &domain.RawTable{
		Headers: []string{"Loja", "Venda"},
		Rows: [][]domain.Cell{
			{domain.TextCell("Centro"), domain.TextCell("10")},
			{domain.TextCell("CENTRO "), domain.TextCell("15")},
			{domain.TextCell("Norte"), domain.TextCell("20")},
		},
	}
	mapping := []domain.ColumnMapping{
		{Field: domain.FieldLoja, Source: "Loja", Index: 0},
		{Field: domain.FieldVenda, Source: "Venda", Index: 1},
	}
	table, _ := normalize.Normalize(raw, mapping)

	t.Run("Ranking agrupa grafias", func(t *testing.T) {
		s := svc.GroupByStore(table, domain.FieldVenda, 0)
		if want := []string{"Norte", "Centro"}; !reflect.DeepEqual(s.Keys(), want) {
			t.Errorf("esperava %v, obtive %v", want, s.Keys())
		}
		if len(s.Points) != 2 || s.Points[1].Values[0] != 25 {
			t.Errorf("esperava 25 para Centro, obtive %+v", s.Points)
		}
	})

	t.Run("Opções e filtro concordam", func(t *testing.T) {
		if want := []string{"Centro", "Norte"}; !reflect.DeepEqual(svc.Stores(table), want) {
			t.Errorf("lojas: esperava %v, obtive %v", want, svc.Stores(table))
		}
		snap := svc.Snapshot(table, domain.Filter{Loja: " centro ", Mes: "Todos"})
		if snap.Linhas != 2 || snap.VendaTotal != 25 {
			t.Errorf("filtro por loja inesperado: %+v", snap)
		}
	})
}

func TestGroupByHierarchyLevel(t *testing.T) {
	svc := NewService()
	rows := []domain.HierarchyRow{
		{Codigo: "1", Nivel: 1, Grupo: "MERCEARIA", Valor: 100},
		{Codigo: "2", Nivel: 1, Grupo: "BEBIDAS", Valor: 0},
		{Codigo: "1.01", Nivel: 2, Grupo: "BISCOITOS", Valor: 60},
		{Codigo: "1.02", Nivel: 2, Grupo: "MASSAS", Valor: 40},
	}

	t.Run("Nível pedido", func(t *testing.T) {
		s := svc.GroupByHierarchyLevel(rows, 2, 0)
		if want := []string{"1.01 BISCOITOS", "1.02 MASSAS"}; !reflect.DeepEqual(s.Keys(), want) {
			t.Errorf("esperava %v, obtive %v", want, s.Keys())
		}
	})

	t.Run("Descarta venda zerada", func(t *testing.T) {
		s := svc.GroupByHierarchyLevel(rows, 1, 0)
		if want := []string{"1 MERCEARIA"}; !reflect.DeepEqual(s.Keys(), want) {
			t.Errorf("esperava %v, obtive %v", want, s.Keys())
		}
	})

	t.Run("Nível vazio usa as maiores vendas", func(t *testing.T) {
		s := svc.GroupByHierarchyLevel(rows, 4, 0)
		if want := []string{"1 MERCEARIA", "1.01 BISCOITOS", "1.02 MASSAS"}; !reflect.DeepEqual(s.Keys(), want) {
			t.Errorf("esperava %v, obtive %v", want, s.Keys())
		}
	})

	t.Run("Sem linhas", func(t *testing.T) {
		s := svc.GroupByHierarchyLevel(nil, 1, 0)
		if s.Points == nil || len(s.Points) != 0 {
			t.Errorf("esperava série vazia, obtive %+v", s)
		}
	})
}

func TestFilterOptions(t *testing.T) {
	svc := NewService()
	table := baseTable(
		domain.Record{Loja: "Norte", Mes: "MAR"},
		domain.Record{Loja: "Centro", Mes: "JAN"},
		domain.Record{Loja: "Norte", Mes: "JAN"},
		domain.Record{Loja: "", Mes: ""},
	)
	if want := []string{"JAN", "MAR"}; !reflect.DeepEqual(svc.Months(table), want) {
		t.Errorf("meses: esperava %v, obtive %v", want, svc.Months(table))
	}
	if want := []string{"Centro", "Norte"}; !reflect.DeepEqual(svc.Stores(table), want) {
		t.Errorf("lojas: esperava %v, obtive %v", want, svc.Stores(table))
	}
}

func TestDisplayAttainment(t *testing.T) {
	cases := []struct {
		ratio, cap, want float64
	}{
		{1.25, 999, 125},
		{50, 999, 999},
		{50, 0, 5000},
		{0.123456, 999, 12.35},
	}
	for _, tc := range cases {
		if got := DisplayAttainment(tc.ratio, tc.cap); got != tc.want {
			t.Errorf("DisplayAttainment(%v, %v) = %v, esperava %v", tc.ratio, tc.cap, got, tc.want)
		}
	}
}
