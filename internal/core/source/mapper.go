package source

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
	"github.com/schollz/closestmatch"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MapColumns renomeia para o nome canônico o primeiro cabeçalho que satisfaz cada regra.
// Sem correspondência pelas dicas, só um cabeçalho igual ao nome canônico é aceito.
// Um cabeçalho atende no máximo um campo; campos sem correspondência ficam ausentes.
// A tabela de entrada não é alterada; as linhas são compartilhadas (somente leitura).
func MapColumns(table *domain.RawTable, schema domain.Schema) (*domain.RawTable, []domain.ColumnMapping) {
	keys := make([]string, len(table.Headers))
	for i, h := range table.Headers {
		keys[i] = matchKey(h)
	}
	claimed := make([]bool, len(table.Headers))
	headers := append([]string(nil), table.Headers...)

	var mapping []domain.ColumnMapping
	for _, rule := range schema {
		idx := findHeader(keys, claimed, rule.Hints)
		if idx < 0 {
			idx = findCanonical(keys, claimed, rule.Field)
		}
		if idx < 0 {
			continue
		}
		claimed[idx] = true
		headers[idx] = string(rule.Field)
		mapping = append(mapping, domain.ColumnMapping{
			Field:  rule.Field,
			Source: table.Headers[idx],
			Index:  idx,
		})
	}

	out := *table
	out.Headers = headers
	return &out, mapping
}

func findHeader(keys []string, claimed []bool, hints []domain.Hint) int {
	for _, hint := range hints {
		if len(hint) == 0 {
			continue
		}
		for i, key := range keys {
			if !claimed[i] && containsAll(key, hint) {
				return i
			}
		}
	}
	return -1
}

func findCanonical(keys []string, claimed []bool, field domain.Field) int {
	want := matchKey(string(field))
	for i, key := range keys {
		if !claimed[i] && strings.TrimSpace(key) == want {
			return i
		}
	}
	return -1
}

func containsAll(key string, hint domain.Hint) bool {
	for _, part := range hint {
		if !strings.Contains(key, matchKey(part)) {
			return false
		}
	}
	return true
}

// matchKey compara cabeçalhos sem diferenciar maiúsculas; NFC evita que "Ê" composto
// e decomposto sejam tratados como textos diferentes.
func matchKey(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// MissingFields devolve os campos do schema que não foram mapeados.
func MissingFields(schema domain.Schema, mapping []domain.ColumnMapping) []domain.Field {
	found := make(map[domain.Field]bool, len(mapping))
	for _, m := range mapping {
		found[m.Field] = true
	}
	var missing []domain.Field
	for _, rule := range schema {
		if !found[rule.Field] {
			missing = append(missing, rule.Field)
		}
	}
	return missing
}

var nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// SuggestHeaders sugere, para cada campo ausente, o cabeçalho não mapeado mais parecido
// com a primeira dica da regra. Serve apenas para diagnóstico.
func SuggestHeaders(table *domain.RawTable, schema domain.Schema, mapping []domain.ColumnMapping) map[domain.Field]string {
	claimed := make(map[int]bool, len(mapping))
	for _, m := range mapping {
		claimed[m.Index] = true
	}

	byKey := make(map[string]string)
	var keys []string
	for i, h := range table.Headers {
		key := normalizeText(h)
		if claimed[i] || key == "" {
			continue
		}
		if _, dup := byKey[key]; !dup {
			byKey[key] = h
			keys = append(keys, key)
		}
	}

	suggestions := make(map[domain.Field]string)
	if len(keys) == 0 {
		return suggestions
	}

	cm := closestmatch.New(keys, []int{2, 3})
	missing := make(map[domain.Field]bool)
	for _, f := range MissingFields(schema, mapping) {
		missing[f] = true
	}
	for _, rule := range schema {
		if !missing[rule.Field] || len(rule.Hints) == 0 {
			continue
		}
		query := normalizeText(strings.Join(rule.Hints[0], " "))
		// closestmatch indexa as chaves em minúsculas
		if match := cm.Closest(strings.ToLower(query)); match != "" {
			suggestions[rule.Field] = byKey[match]
		}
	}
	return suggestions
}
