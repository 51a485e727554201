package dataset

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LuisEduardoPedra/painelVendas/internal/core/normalize"
	"github.com/LuisEduardoPedra/painelVendas/internal/core/source"
	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
	"github.com/LuisEduardoPedra/painelVendas/internal/metrics"
	"go.uber.org/zap"
)

// Service executa a ingestão: localizar arquivo, ler, mapear colunas e normalizar.
type Service interface {
	Load() (*domain.Dataset, error)
	Invalidate()
}

// Options define o diretório dos dados e as dicas de nome de arquivo.
type Options struct {
	Dir                 string
	BaseHints           []string
	ClassificationHints []string
	Encodings           []source.Encoding
}

type service struct {
	opts   Options
	cache  *Cache
	logger *zap.Logger
	now    func() time.Time
}

func NewService(opts Options, cache *Cache, logger *zap.Logger) Service {
	if len(opts.Encodings) == 0 {
		opts.Encodings = source.DefaultEncodings()
	}
	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{opts: opts, cache: cache, logger: logger, now: time.Now}
}

// Load devolve o dataset da base atual, reaproveitando o cache enquanto os arquivos não
// mudarem. A ausência da base é fatal; a da classificação apenas gera aviso.
func (s *service) Load() (*domain.Dataset, error) {
	basePath, err := source.ResolveSourceFile(s.opts.Dir, s.opts.BaseHints)
	if err != nil {
		metrics.Ingestions.WithLabelValues("nao_encontrado").Inc()
		s.logger.Error("base de vendas não encontrada", zap.String("diretorio", s.opts.Dir), zap.Error(err))
		return nil, err
	}
	baseID, err := Identify(basePath)
	if err != nil {
		metrics.Ingestions.WithLabelValues("ilegivel").Inc()
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableFile, basePath, err)
	}

	classPath := s.resolveClassification(basePath)
	key := Key{Base: baseID}
	if classPath != "" {
		if id, err := Identify(classPath); err == nil {
			key.Classification = id
		}
	}

	if ds, ok := s.cache.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return ds, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	start := s.now()
	ds, err := s.ingest(basePath, classPath)
	if err != nil {
		metrics.Ingestions.WithLabelValues("ilegivel").Inc()
		s.logger.Error("falha ao ler base de vendas", zap.String("arquivo", basePath), zap.Error(err))
		return nil, err
	}
	metrics.IngestionDuration.Observe(s.now().Sub(start).Seconds())
	metrics.Ingestions.WithLabelValues("sucesso").Inc()

	s.cache.Put(key, ds)
	s.logger.Info("base de vendas carregada",
		zap.String("arquivo", ds.Source),
		zap.String("codificacao", ds.Encoding),
		zap.Int("linhas", len(ds.Table.Rows)),
		zap.Int("avisos", len(ds.Warnings)),
		zap.Bool("classificacao", ds.HierarchyAvailable()),
	)
	return ds, nil
}

// Invalidate descarta a entrada da base atual. Sem base localizável, o cache inteiro
// é descartado.
func (s *service) Invalidate() {
	basePath, err := source.ResolveSourceFile(s.opts.Dir, s.opts.BaseHints)
	if err != nil {
		s.cache.Reset()
		s.logger.Info("cache de ingestão invalidado")
		return
	}
	s.cache.Invalidate(basePath)
	s.logger.Info("cache de ingestão invalidado", zap.String("arquivo", basePath))
}

// resolveClassification aplica a mesma heurística de escolha com as dicas da
// classificação. O próprio arquivo base nunca é usado como classificação.
func (s *service) resolveClassification(basePath string) string {
	if len(s.opts.ClassificationHints) == 0 {
		return ""
	}
	path, err := source.ResolveSourceFile(s.opts.Dir, s.opts.ClassificationHints)
	if err != nil || path == basePath {
		return ""
	}
	return path
}

func (s *service) ingest(basePath, classPath string) (*domain.Dataset, error) {
	raw, err := source.ReadTable(basePath, s.opts.Encodings)
	if err != nil {
		return nil, err
	}

	schema := source.BaseSchema()
	mapped, mapping := source.MapColumns(raw, schema)
	ds := &domain.Dataset{
		Source:      raw.Source,
		Encoding:    raw.Encoding,
		Fingerprint: raw.Fingerprint,
		LoadedAt:    s.now(),
		Headers:     raw.Headers,
		Mapping:     mapping,
	}

	if raw.Skipped > 0 {
		metrics.SkippedRows.Add(float64(raw.Skipped))
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("%d linha(s) malformada(s) ignorada(s) em %s", raw.Skipped, raw.Source))
	}
	ds.Warnings = append(ds.Warnings, schemaWarnings(mapped, schema, mapping)...)

	table, report := normalize.Normalize(mapped, mapping)
	ds.Table = table
	ds.Warnings = append(ds.Warnings, fallbackWarnings(schema, report)...)
	if n := report.TotalFallbacks(); n > 0 {
		s.logger.Debug("células zeradas na normalização", zap.String("arquivo", raw.Source), zap.Int("celulas", n), zap.Int("linhas", report.Rows))
	}

	s.loadHierarchy(ds, classPath)
	for _, w := range ds.Warnings {
		s.logger.Warn(w, zap.String("arquivo", raw.Source))
	}
	return ds, nil
}

func (s *service) loadHierarchy(ds *domain.Dataset, classPath string) {
	if classPath == "" {
		ds.Warnings = append(ds.Warnings, "arquivo de classificação não encontrado; gráfico de classificação indisponível")
		return
	}

	table, mapping, err := source.LoadClassification(classPath, s.opts.Encodings)
	if err != nil {
		if !errors.Is(err, domain.ErrUnreadableFile) {
			err = fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
		}
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("classificação indisponível: %v", err))
		return
	}

	rows, report := normalize.Hierarchy(table, mapping)
	if rows == nil {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("classificação indisponível: %v em %s (colunas encontradas: %s)",
			domain.ErrSchemaMismatch, classPath, strings.Join(table.Headers, ", ")))
		return
	}
	ds.Hierarchy = rows
	ds.HierarchySource = classPath
	ds.HierarchyHeaders = table.Headers
	ds.Warnings = append(ds.Warnings, fallbackWarnings(source.ClassificationSchema(), report)...)
}

func schemaWarnings(table *domain.RawTable, schema domain.Schema, mapping []domain.ColumnMapping) []string {
	missing := source.MissingFields(schema, mapping)
	if len(missing) == 0 {
		return nil
	}

	suggestions := source.SuggestHeaders(table, schema, mapping)
	var hints []string
	for _, f := range missing {
		if h, ok := suggestions[f]; ok {
			hints = append(hints, fmt.Sprintf("%s ~ %q", f, h))
		}
	}

	var msg string
	if len(mapping) == 0 {
		msg = fmt.Sprintf("%v: nenhuma coluna reconhecida (colunas encontradas: %s)",
			domain.ErrSchemaMismatch, strings.Join(table.Headers, ", "))
	} else {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		msg = fmt.Sprintf("campos ausentes: %s", strings.Join(names, ", "))
	}
	if len(hints) > 0 {
		msg += "; sugestões: " + strings.Join(hints, ", ")
	}
	return []string{msg}
}

func fallbackWarnings(schema domain.Schema, report normalize.Report) []string {
	var out []string
	for _, rule := range schema {
		n := report.Fallbacks[rule.Field]
		if n == 0 {
			continue
		}
		metrics.ZeroedCells.WithLabelValues(string(rule.Field)).Add(float64(n))
		out = append(out, fmt.Sprintf("%d célula(s) de %s não puderam ser convertidas e foram consideradas zero", n, rule.Field))
	}
	return out
}
