// internal/api/handlers/dashboard_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/LuisEduardoPedra/painelVendas/internal/api/responses"
	"github.com/LuisEduardoPedra/painelVendas/internal/core/analysis"
	"github.com/LuisEduardoPedra/painelVendas/internal/core/dataset"
	"github.com/LuisEduardoPedra/painelVendas/internal/core/report"
	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
	"github.com/gin-gonic/gin"
)

// DashboardOptions são os parâmetros de exibição vindos da configuração.
type DashboardOptions struct {
	TopN           int
	AttainmentCap  float64
	HierarchyLevel int
	MinSales       float64
}

// DashboardHandler expõe KPIs, séries e a tabela da base de vendas.
type DashboardHandler struct {
	datasets dataset.Service
	service  analysis.Service
	opts     DashboardOptions
}

func NewDashboardHandler(datasets dataset.Service, service analysis.Service, opts DashboardOptions) *DashboardHandler {
	return &DashboardHandler{
		datasets: datasets,
		service:  service,
		opts:     opts,
	}
}

// HandleDashboard devolve KPIs, cartões formatados, série mensal e ranking de lojas
// para o filtro informado.
func (h *DashboardHandler) HandleDashboard(c *gin.Context) {
	topN := h.opts.TopN
	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			responses.Error(c, http.StatusBadRequest, "Parâmetro 'top' inválido", raw)
			return
		}
		topN = n
	}

	ds, ok := h.load(c)
	if !ok {
		return
	}

	filter := domain.Filter{Mes: c.Query("mes"), Loja: c.Query("loja")}
	view := h.service.Apply(ds.Table, filter)
	kpis := h.service.Snapshot(ds.Table, filter)

	responses.Success(c, http.StatusOK, gin.H{
		"fonte":       filepath.Base(ds.Source),
		"fingerprint": fingerprint(ds),
		"filtro":      filter,
		"kpis":        kpis,
		"cards":       report.Cards(kpis, h.opts.AttainmentCap),
		"mensal":      h.service.GroupByMonth(view, domain.FieldVenda, domain.FieldMeta),
		"lojas":       h.service.GroupByStore(view, domain.FieldVenda, topN),
		"avisos":      warnings(ds),
	})
}

// HandleFilters devolve as opções de mês e loja presentes na base.
func (h *DashboardHandler) HandleFilters(c *gin.Context) {
	ds, ok := h.load(c)
	if !ok {
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"meses": h.service.Months(ds.Table),
		"lojas": h.service.Stores(ds.Table),
	})
}

// HandleClassification devolve a série da classificação mercadológica no nível pedido.
// Sem arquivo de classificação a resposta é 200 com disponivel=false.
func (h *DashboardHandler) HandleClassification(c *gin.Context) {
	level := h.opts.HierarchyLevel
	if raw := c.Query("nivel"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			responses.Error(c, http.StatusBadRequest, "Parâmetro 'nivel' inválido", raw)
			return
		}
		level = n
	}

	ds, ok := h.load(c)
	if !ok {
		return
	}

	if !ds.HierarchyAvailable() {
		responses.Success(c, http.StatusOK, gin.H{
			"disponivel": false,
			"nivel":      level,
			"mensagem":   "Arquivo de classificação não encontrado ou sem a coluna Classificação.",
			"serie":      h.service.GroupByHierarchyLevel(nil, level, h.opts.MinSales),
		})
		return
	}

	responses.Success(c, http.StatusOK, gin.H{
		"disponivel": true,
		"fonte":      filepath.Base(ds.HierarchySource),
		"nivel":      level,
		"serie":      h.service.GroupByHierarchyLevel(ds.Hierarchy, level, h.opts.MinSales),
	})
}

// HandleReload descarta o cache e lê os arquivos novamente.
func (h *DashboardHandler) HandleReload(c *gin.Context) {
	h.datasets.Invalidate()
	ds, ok := h.load(c)
	if !ok {
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"status":      "recarregado",
		"fonte":       filepath.Base(ds.Source),
		"fingerprint": fingerprint(ds),
		"avisos":      warnings(ds),
	})
}

// load obtém o dataset atual e já responde o erro quando a ingestão falha.
func (h *DashboardHandler) load(c *gin.Context) (*domain.Dataset, bool) {
	ds, err := h.datasets.Load()
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrUnreadableFile):
			status = http.StatusUnprocessableEntity
		}
		responses.Error(c, status, "Não foi possível carregar a base de vendas", err.Error())
		return nil, false
	}
	return ds, true
}

func fingerprint(ds *domain.Dataset) string {
	return fmt.Sprintf("%016x", ds.Fingerprint)
}

func warnings(ds *domain.Dataset) []string {
	if ds.Warnings == nil {
		return []string{}
	}
	return ds.Warnings
}
