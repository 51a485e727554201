package source

import "github.com/LuisEduardoPedra/painelVendas/internal/domain"

// ClassificationHeaderHint identifica o cabeçalho verdadeiro do arquivo de classificação.
const ClassificationHeaderHint = "classificação"

// BaseSchema devolve as regras da base de vendas. Meta vem antes de Venda para que
// "Meta Venda 2022 R$" nunca seja tomada como venda realizada. Cabeçalhos já canônicos
// ("Meta", "Loja", "Mes") são reconhecidos por MapColumns sem dica própria.
func BaseSchema() domain.Schema {
	return domain.Schema{
		{Field: domain.FieldMeta, Hints: []domain.Hint{{"meta venda"}}},
		{Field: domain.FieldVenda, Hints: []domain.Hint{{"venda", "r$"}, {"venda"}}},
		{Field: domain.FieldMargemPerc, Hints: []domain.Hint{{"margem bruta", "%"}}},
		{Field: domain.FieldClientes, Hints: []domain.Hint{{"qtd de cupom"}}},
		{Field: domain.FieldLoja, Hints: []domain.Hint{{"nome loja"}}},
		{Field: domain.FieldMes, Hints: []domain.Hint{{"mês"}}},
	}
}

// ClassificationSchema devolve as regras do arquivo de classificação mercadológica.
// As colunas de participação vêm antes de Valor para não disputarem cabeçalhos como
// "% Partic Valor".
func ClassificationSchema() domain.Schema {
	return domain.Schema{
		{Field: domain.FieldClassificacao, Hints: []domain.Hint{{ClassificationHeaderHint}}},
		{Field: domain.FieldGrupo, Hints: []domain.Hint{{"grupo"}}},
		{Field: domain.FieldParticPerc, Hints: []domain.Hint{{"% partic"}}},
		{Field: domain.FieldLucroPerc, Hints: []domain.Hint{{"% lucro"}}},
		{Field: domain.FieldValor, Hints: []domain.Hint{{"valor"}}},
	}
}
