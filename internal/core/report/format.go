package report

import (
	"strings"

	"github.com/LuisEduardoPedra/painelVendas/internal/core/analysis"
	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
	"github.com/shopspring/decimal"
)

// Card é um indicador já formatado para o painel.
type Card struct {
	Titulo string `json:"titulo"`
	Valor  string `json:"valor"`
}

// Cards monta os cartões de KPI no formato brasileiro. O atingimento exibido é
// limitado a attainmentCap; o valor bruto continua disponível no snapshot.
func Cards(k domain.KPISnapshot, attainmentCap float64) []Card {
	return []Card{
		{Titulo: "Venda Total", Valor: FormatBRL(k.VendaTotal)},
		{Titulo: "Meta", Valor: FormatBRL(k.MetaTotal)},
		{Titulo: "Atingimento", Valor: FormatPercent(analysis.DisplayAttainment(k.Atingimento, attainmentCap))},
		{Titulo: "Margem Média", Valor: FormatPercent(k.MargemMedia)},
		{Titulo: "Clientes", Valor: FormatInteger(k.ClientesTotal)},
		{Titulo: "Ticket Médio", Valor: FormatBRL(k.TicketMedio)},
	}
}

// FormatBRL formata um valor como moeda: 1234.5 -> "R$ 1.234,50".
func FormatBRL(v float64) string {
	return "R$ " + formatNumber(v, 2)
}

// FormatPercent formata pontos percentuais: 25.5 -> "25,50%".
func FormatPercent(v float64) string {
	return formatNumber(v, 2) + "%"
}

func FormatInteger(v float64) string {
	return formatNumber(v, 0)
}

// formatNumber usa "." como separador de milhar e "," como decimal.
func formatNumber(v float64, places int32) string {
	s := decimal.NewFromFloat(v).Round(places).StringFixed(places)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if strings.Trim(intPart, "0") == "" && strings.Trim(frac, "0") == "" {
		sign = ""
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		return sign + b.String() + "," + frac
	}
	return sign + b.String()
}
