package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
)

var currencyReplacer = strings.NewReplacer(
	`"`, "",
	"'", "",
	"R$", "",
	"$", "",
	" ", "",
	"\u00a0", "",
	".", "",
)

var percentReplacer = strings.NewReplacer(
	`"`, "",
	"'", "",
	"%", "",
	" ", "",
	"\u00a0", "",
)

// ParseCurrency converte valores no formato "R$ 1.234,56". O ponto é sempre separador
// de milhar e a vírgula, decimal. Nunca falha: vazio ou texto inválido resulta em 0.
func ParseCurrency(c domain.Cell) float64 {
	v, _ := parseCurrency(c)
	return v
}

// ParsePercentage converte "25,5%" em 25.5 (pontos percentuais). Nunca falha.
func ParsePercentage(c domain.Cell) float64 {
	v, _ := parsePercentage(c)
	return v
}

// ParseCount converte contagens como "13.514" em 13514, truncando qualquer parte
// depois da vírgula. Nunca falha.
func ParseCount(c domain.Cell) int64 {
	v, _ := parseCount(c)
	return v
}

// Os parse* internos informam false quando uma célula preenchida caiu no zero.

func parseCurrency(c domain.Cell) (float64, bool) {
	if c.Numeric {
		return finite(c.Number)
	}
	s := strings.TrimSpace(c.Text)
	if s == "" {
		return 0, true
	}
	s = currencyReplacer.Replace(s)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

func parsePercentage(c domain.Cell) (float64, bool) {
	if c.Numeric {
		return finite(c.Number)
	}
	s := strings.TrimSpace(c.Text)
	if s == "" {
		return 0, true
	}
	s = percentReplacer.Replace(s)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

func parseCount(c domain.Cell) (int64, bool) {
	if c.Numeric {
		v, ok := finite(c.Number)
		return int64(math.Trunc(v)), ok
	}
	s := strings.TrimSpace(c.Text)
	if s == "" {
		return 0, true
	}
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Trim(s, `"' `)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
