package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
)

// Extensões tabulares reconhecidas (comparação sem diferenciar maiúsculas).
var tabularExtensions = map[string]bool{
	".csv":  true,
	".txt":  true,
	".xlsx": true,
	".xls":  true,
}

// IsTabular informa se o nome de arquivo tem extensão tabular reconhecida.
func IsTabular(name string) bool {
	return tabularExtensions[strings.ToLower(filepath.Ext(name))]
}

// ResolveSourceFile escolhe um arquivo do diretório: o primeiro cujo nome contém uma das
// dicas (na ordem das dicas), ou então o primeiro candidato da listagem.
func ResolveSourceFile(dir string, hints []string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: não foi possível listar %s (%v)", domain.ErrNotFound, dir, err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() || !IsTabular(e.Name()) {
			continue
		}
		candidates = append(candidates, e.Name())
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: nenhum arquivo .csv/.xlsx/.xls em %s (esperado nome contendo: %s)",
			domain.ErrNotFound, dir, strings.Join(hints, ", "))
	}

	for _, hint := range hints {
		h := strings.ToLower(strings.TrimSpace(hint))
		if h == "" {
			continue
		}
		for _, name := range candidates {
			if strings.Contains(strings.ToLower(name), h) {
				return filepath.Join(dir, name), nil
			}
		}
	}
	return filepath.Join(dir, candidates[0]), nil
}
