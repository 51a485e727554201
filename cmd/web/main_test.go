package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LuisEduardoPedra/painelVendas/internal/api/handlers"
	"github.com/LuisEduardoPedra/painelVendas/internal/core/analysis"
	"github.com/LuisEduardoPedra/painelVendas/internal/core/dataset"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "base.csv"), []byte("Nome Loja;Venda 2022 R$\nCentro;\"R$ 10,00\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	datasets := dataset.NewService(dataset.Options{Dir: dir, BaseHints: []string{"base"}}, dataset.NewCache(), zap.NewNop())
	h := handlers.NewDashboardHandler(datasets, analysis.NewService(), handlers.DashboardOptions{TopN: 10, AttainmentCap: 999, HierarchyLevel: 1})
	router := newRouter(h, zap.NewNop())

	cases := []struct {
		method, target string
		want           int
		contains       string
	}{
		{http.MethodGet, "/health", http.StatusOK, `"UP"`},
		{http.MethodGet, "/api/v1/dashboard", http.StatusOK, `"R$ 10,00"`},
		{http.MethodGet, "/api/v1/filtros", http.StatusOK, `"Centro"`},
		{http.MethodGet, "/api/v1/classificacao", http.StatusOK, `"disponivel":false`},
		{http.MethodPost, "/api/v1/recarregar", http.StatusOK, `"recarregado"`},
		{http.MethodGet, "/metrics", http.StatusOK, "painel_ingestoes_total"},
		{http.MethodOptions, "/api/v1/dashboard", http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.target, nil))
			if w.Code != tc.want {
				t.Fatalf("esperava %d, obtive %d: %s", tc.want, w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tc.contains) {
				t.Errorf("resposta sem %q: %s", tc.contains, w.Body.String())
			}
			if w.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Errorf("cabeçalho CORS ausente")
			}
		})
	}
}
