package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Ingestions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painel_ingestoes_total",
		Help: "Ingestões da base de vendas por resultado.",
	}, []string{"resultado"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painel_cache_consultas_total",
		Help: "Consultas ao cache de ingestão (hit/miss).",
	}, []string{"resultado"})

	ZeroedCells = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painel_celulas_zeradas_total",
		Help: "Células preenchidas que não puderam ser convertidas e viraram zero.",
	}, []string{"campo"})

	SkippedRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "painel_linhas_descartadas_total",
		Help: "Linhas malformadas descartadas na leitura.",
	})

	IngestionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "painel_ingestao_segundos",
		Help:    "Duração da ingestão completa (leitura, mapeamento e normalização).",
		Buckets: prometheus.DefBuckets,
	})
)
