package source

import (
	"reflect"
	"testing"

	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
)

func rawTable(headers ...string) *domain.RawTable {
	return &domain.RawTable{Headers: headers, Rows: [][]domain.Cell{}}
}

func TestMapColumns(t *testing.T) {
	t.Run("Cabeçalhos do relatório de vendas", func(t *testing.T) {
		table := rawTable("Nome Loja", "Mês", "Venda 2022 R$", "Meta Venda 2022 R$", "Margem Bruta 2022 %", "Qtd de cupom 2022", "Obs")
		mapped, mapping := MapColumns(table, BaseSchema())

		want := []string{"Loja", "Mes", "Venda", "Meta", "Margem_Perc", "Clientes", "Obs"}
		if !reflect.DeepEqual(mapped.Headers, want) {
			t.Errorf("esperava %q, obtive %q", want, mapped.Headers)
		}
		if len(mapping) != 6 {
			t.Errorf("esperava 6 mapeamentos, obtive %d", len(mapping))
		}
	})

	t.Run("Meta Venda não é tomada como Venda", func(t *testing.T) {
		table := rawTable("Meta Venda 2022 R$", "Venda 2022 R$")
		mapped, _ := MapColumns(table, BaseSchema())
		if mapped.Headers[0] != "Meta" || mapped.Headers[1] != "Venda" {
			t.Errorf("mapeamento inesperado: %q", mapped.Headers)
		}
	})

	t.Run("Cada cabeçalho atende um campo só", func(t *testing.T) {
		table := rawTable("Venda Loja")
		mapped, mapping := MapColumns(table, BaseSchema())
		if len(mapping) != 1 || mapped.Headers[0] != "Venda" {
			t.Errorf("mapeamento inesperado: %q %+v", mapped.Headers, mapping)
		}
	})

	t.Run("Não altera a tabela de entrada", func(t *testing.T) {
		table := rawTable("Nome Loja", "Venda 2022 R$")
		before := append([]string(nil), table.Headers...)
		MapColumns(table, BaseSchema())
		if !reflect.DeepEqual(table.Headers, before) {
			t.Errorf("entrada alterada: %q", table.Headers)
		}
	})

	t.Run("Idempotente sobre tabela canônica", func(t *testing.T) {
		table := rawTable("Nome Loja", "Mês", "Venda 2022 R$", "Meta Venda 2022 R$", "Margem Bruta 2022 %", "Qtd de cupom 2022")
		once, _ := MapColumns(table, BaseSchema())
		twice, mapping := MapColumns(once, BaseSchema())
		if !reflect.DeepEqual(once.Headers, twice.Headers) {
			t.Errorf("segundo mapeamento mudou a tabela: %q -> %q", once.Headers, twice.Headers)
		}
		for _, m := range mapping {
			if m.Source != string(m.Field) {
				t.Errorf("campo %s mapeado a partir de %q", m.Field, m.Source)
			}
		}
	})

	t.Run("Nome canônico exato é reconhecido", func(t *testing.T) {
		table := rawTable("Meta", "Loja", "Mes", "Clientes", "Margem_Perc")
		_, mapping := MapColumns(table, BaseSchema())
		if len(mapping) != 5 {
			t.Errorf("esperava 5 mapeamentos, obtive %+v", mapping)
		}
	})

	t.Run("Cabeçalho que apenas contém o nome canônico fica livre", func(t *testing.T) {
		table := rawTable("% Meta Atingida", "Cod Loja", "Mesa", "Clientes Novos")
		mapped, mapping := MapColumns(table, BaseSchema())
		if len(mapping) != 0 {
			t.Errorf("nenhum campo deveria ser mapeado: %+v", mapping)
		}
		if !reflect.DeepEqual(mapped.Headers, table.Headers) {
			t.Errorf("cabeçalhos não deveriam mudar: %q", mapped.Headers)
		}
	})

	t.Run("Campos ausentes", func(t *testing.T) {
		table := rawTable("Loja", "Total Vendido")
		_, mapping := MapColumns(table, BaseSchema())
		missing := MissingFields(BaseSchema(), mapping)
		want := []domain.Field{domain.FieldMeta, domain.FieldVenda, domain.FieldMargemPerc, domain.FieldClientes, domain.FieldMes}
		if !reflect.DeepEqual(missing, want) {
			t.Errorf("esperava %v, obtive %v", want, missing)
		}
	})
}

func TestSuggestHeaders(t *testing.T) {
	table := rawTable("Loja", "Vnda Total", "Cupons", "Margem Bruta 2022")
	_, mapping := MapColumns(table, BaseSchema())
	suggestions := SuggestHeaders(table, BaseSchema(), mapping)

	t.Run("Cabeçalho parecido é sugerido", func(t *testing.T) {
		if got := suggestions[domain.FieldVenda]; got != "Vnda Total" {
			t.Errorf("sugestão para Venda inesperada: %q (%v)", got, suggestions)
		}
		if got := suggestions[domain.FieldMargemPerc]; got != "Margem Bruta 2022" {
			t.Errorf("sugestão para Margem_Perc inesperada: %q (%v)", got, suggestions)
		}
	})

	t.Run("Campo mapeado não recebe sugestão", func(t *testing.T) {
		if _, ok := suggestions[domain.FieldLoja]; ok {
			t.Errorf("Loja já mapeada não deveria receber sugestão")
		}
		for f, h := range suggestions {
			if h == "Loja" {
				t.Errorf("cabeçalho já mapeado sugerido para %s", f)
			}
		}
	})

	t.Run("Sem cabeçalhos livres", func(t *testing.T) {
		table := rawTable("Nome Loja")
		_, mapping := MapColumns(table, BaseSchema())
		if got := SuggestHeaders(table, BaseSchema(), mapping); len(got) != 0 {
			t.Errorf("não esperava sugestões: %v", got)
		}
	})
}

func TestLoadClassification(t *testing.T) {
	t.Run("Linha de título acima do cabeçalho", func(t *testing.T) {
		content := "Classificação Mercadológica - 2022;;;;\n" +
			"Classificação;Grupo;Valor;% Partic;% Lucro\n" +
			"1;MERCEARIA;\"1.000,00\";50,0%;20,0%\n"
		path := writeFile(t, t.TempDir(), "classificacao.csv", content)

		table, mapping, err := LoadClassification(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(mapping) != 5 {
			t.Fatalf("esperava 5 mapeamentos, obtive %+v", mapping)
		}
		if len(table.Rows) != 1 || table.Rows[0][1].Text != "MERCEARIA" {
			t.Errorf("linhas inesperadas: %+v", table.Rows)
		}
	})

	t.Run("Cabeçalho já na primeira linha", func(t *testing.T) {
		content := "Classificação;Grupo;Valor\n1;MERCEARIA;10\n1.01;BISCOITOS;5\n"
		path := writeFile(t, t.TempDir(), "classificacao.csv", content)

		table, _, err := LoadClassification(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(table.Rows) != 2 {
			t.Errorf("nenhuma linha deveria ser pulada: %+v", table.Rows)
		}
	})
}
