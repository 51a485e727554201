package source

import (
	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
)

// LoadClassification lê o arquivo de classificação mercadológica. Exportações desse
// arquivo costumam trazer uma linha de título acima do cabeçalho: se a primeira linha
// não reconhecer ao menos a classificação e mais um campo, o arquivo é relido pulando
// exatamente uma linha, e fica a leitura que reconhecer mais campos.
func LoadClassification(path string, encodings []Encoding) (*domain.RawTable, []domain.ColumnMapping, error) {
	schema := ClassificationSchema()

	table, err := ReadTable(path, encodings)
	if err != nil {
		return nil, nil, err
	}
	mapped, mapping := MapColumns(table, schema)
	if isHeader(mapping) {
		return mapped, mapping, nil
	}

	skipped, err := ReadTableSkipping(path, encodings, 1)
	if err != nil {
		return mapped, mapping, nil
	}
	mappedSkipped, mappingSkipped := MapColumns(skipped, schema)
	if len(mappingSkipped) > len(mapping) {
		return mappedSkipped, mappingSkipped, nil
	}
	return mapped, mapping, nil
}

func isHeader(mapping []domain.ColumnMapping) bool {
	hasCode := false
	for _, m := range mapping {
		if m.Field == domain.FieldClassificacao {
			hasCode = true
		}
	}
	return hasCode && len(mapping) >= 2
}
