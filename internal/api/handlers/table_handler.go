// internal/api/handlers/table_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/LuisEduardoPedra/painelVendas/internal/api/responses"
	"github.com/LuisEduardoPedra/painelVendas/internal/core/report"
	"github.com/LuisEduardoPedra/painelVendas/internal/domain"
	"github.com/gin-gonic/gin"
)

// HandleTable devolve a base normalizada linha a linha. Responde 304 quando o
// If-None-Match do cliente corresponde à impressão digital atual.
func (h *DashboardHandler) HandleTable(c *gin.Context) {
	ds, ok := h.load(c)
	if !ok {
		return
	}
	if notModified(c, ds) {
		return
	}

	rows, err := report.Rows(ds.Table)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao montar a tabela", err.Error())
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"fonte":      filepath.Base(ds.Source),
		"colunas":    report.Columns(ds.Table),
		"cabecalhos": ds.Headers,
		"mapeamento": ds.Mapping,
		"linhas":     rows,
	})
}

// HandleExport baixa a base normalizada em CSV.
func (h *DashboardHandler) HandleExport(c *gin.Context) {
	ds, ok := h.load(c)
	if !ok {
		return
	}
	if notModified(c, ds) {
		return
	}

	outputCSV, err := report.CSV(ds.Table)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao gerar o arquivo", err.Error())
		return
	}

	fileName := fmt.Sprintf("BaseVendas_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", outputCSV)
}

// notModified define o ETag e responde 304 se o cliente já tem esta versão.
func notModified(c *gin.Context, ds *domain.Dataset) bool {
	etag := `"` + fingerprint(ds) + `"`
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.AbortWithStatus(http.StatusNotModified)
		return true
	}
	return false
}
