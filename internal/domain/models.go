package domain

import (
	"strconv"
	"strings"
	"time"
)

// Field é o nome lógico (canônico) de uma coluna, independente do cabeçalho da planilha.
type Field string

// Campos da base de vendas.
const (
	FieldVenda      Field = "Venda"
	FieldMeta       Field = "Meta"
	FieldMargemPerc Field = "Margem_Perc"
	FieldClientes   Field = "Clientes"
	FieldLoja       Field = "Loja"
	FieldMes        Field = "Mes"
)

// Campos do arquivo de classificação mercadológica.
const (
	FieldClassificacao Field = "Classificacao"
	FieldGrupo         Field = "Grupo"
	FieldValor         Field = "Valor"
	FieldParticPerc    Field = "Partic_Perc"
	FieldLucroPerc     Field = "Lucro_Perc"
)

// Cell é o valor bruto de uma célula, como entregue pelo leitor do arquivo.
// Células de CSV são sempre texto; planilhas podem entregar números nativos.
// Um número reconhecido a partir de texto guarda também o texto original.
type Cell struct {
	Text    string
	Number  float64
	Numeric bool
}

// TextCell cria uma célula textual.
func TextCell(s string) Cell { return Cell{Text: s} }

// NumberCell cria uma célula numérica nativa.
func NumberCell(v float64) Cell { return Cell{Number: v, Numeric: true} }

// ParsedCell cria uma célula numérica que preserva o texto de origem ("1.10", "001").
func ParsedCell(text string, v float64) Cell { return Cell{Text: text, Number: v, Numeric: true} }

// Empty indica célula vazia/ausente.
func (c Cell) Empty() bool { return !c.Numeric && strings.TrimSpace(c.Text) == "" }

// String devolve o texto da célula; números sem texto de origem são formatados sem perda.
func (c Cell) String() string {
	if c.Numeric && c.Text == "" {
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return c.Text
}

// RawTable é a tabela lida do arquivo, antes de qualquer conversão.
// Rows é posicional e alinhado com Headers; cabeçalhos repetidos são permitidos.
type RawTable struct {
	Source      string
	Encoding    string
	Fingerprint uint64
	Headers     []string
	Rows        [][]Cell
	Skipped     int
}

// Column devolve o índice do primeiro cabeçalho igual a name, ou -1.
func (t *RawTable) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Hint é um conjunto de trechos que precisam estar todos contidos no cabeçalho.
type Hint []string

// Rule associa um campo canônico às dicas, em ordem de preferência.
type Rule struct {
	Field Field
	Hints []Hint
}

// Schema é a tabela declarativa de regras; a ordem das regras é a ordem de processamento.
type Schema []Rule

// ColumnMapping registra a substituição efetivamente feita pelo mapeador.
type ColumnMapping struct {
	Field  Field  `json:"campo"`
	Source string `json:"coluna_origem"`
	Index  int    `json:"indice"`
}

// Record é uma linha da base normalizada.
type Record struct {
	Venda      float64
	Meta       float64
	MargemPerc float64 // pontos percentuais: 25.5 significa 25,5%
	Clientes   int64
	Loja       string
	Mes        string
	Extra      []Cell
}

// NormalizedTable é a base com colunas canônicas tipadas e as demais colunas preservadas.
type NormalizedTable struct {
	Present map[Field]bool
	Extra   []string
	Rows    []Record
}

// Has informa se o campo canônico existe na tabela.
func (t *NormalizedTable) Has(f Field) bool {
	return t != nil && t.Present[f]
}

// HierarchyRow é uma linha da classificação mercadológica.
type HierarchyRow struct {
	Codigo    string  `json:"codigo"`
	Nivel     int     `json:"nivel"`
	Grupo     string  `json:"grupo"`
	Valor     float64 `json:"valor"`
	PartPerc  float64 `json:"partic_perc"`
	LucroPerc float64 `json:"lucro_perc"`
}

// KPISnapshot é o conjunto de indicadores calculado sobre a visão filtrada.
type KPISnapshot struct {
	VendaTotal    float64 `json:"venda_total"`
	MetaTotal     float64 `json:"meta_total"`
	MargemMedia   float64 `json:"margem_media"`
	ClientesTotal float64 `json:"clientes_total"`
	TicketMedio   float64 `json:"ticket_medio"`
	Atingimento   float64 `json:"atingimento"`
	Linhas        int     `json:"linhas"`
}

// SeriesPoint é uma tupla (chave, valores...) pronta para o gráfico.
type SeriesPoint struct {
	Key    string    `json:"chave"`
	Values []float64 `json:"valores"`
}

// Series é uma série agrupada; Columns nomeia cada posição de Values.
type Series struct {
	Columns []string      `json:"colunas"`
	Points  []SeriesPoint `json:"pontos"`
}

// Keys devolve as chaves na ordem da série.
func (s Series) Keys() []string {
	keys := make([]string, len(s.Points))
	for i, p := range s.Points {
		keys[i] = p.Key
	}
	return keys
}

// Filter é a seleção ativa enviada pela apresentação.
type Filter struct {
	Mes  string `json:"mes"`
	Loja string `json:"loja"`
}

// Dataset é o resultado de uma ingestão completa.
type Dataset struct {
	Source           string
	Encoding         string
	Fingerprint      uint64
	LoadedAt         time.Time
	Headers          []string
	Table            *NormalizedTable
	Mapping          []ColumnMapping
	Hierarchy        []HierarchyRow
	HierarchySource  string
	HierarchyHeaders []string
	Warnings         []string
}

// HierarchyAvailable indica se a classificação foi carregada.
func (d *Dataset) HierarchyAvailable() bool {
	return d != nil && d.Hierarchy != nil
}
