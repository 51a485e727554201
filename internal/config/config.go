package config

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Gin       GinConfig       `mapstructure:"gin"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Data      DataConfig      `mapstructure:"data"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DataConfig descreve onde ficam os arquivos e como escolhê-los.
type DataConfig struct {
	Dir                 string   `mapstructure:"dir"`
	BaseHints           []string `mapstructure:"base_hints"`
	ClassificationHints []string `mapstructure:"classification_hints"`
}

type DashboardConfig struct {
	TopN           int     `mapstructure:"top_n"`
	AttainmentCap  float64 `mapstructure:"attainment_cap"`
	HierarchyLevel int     `mapstructure:"hierarchy_level"`
	MinSales       float64 `mapstructure:"min_sales"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("gin.mode", "release")
	v.SetDefault("logging.level", "info")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.base_hints", []string{"base", "vendas"})
	v.SetDefault("data.classification_hints", []string{"classifica", "hierarquia"})
	v.SetDefault("dashboard.top_n", 10)
	v.SetDefault("dashboard.attainment_cap", 999.0)
	v.SetDefault("dashboard.hierarchy_level", 1)
	v.SetDefault("dashboard.min_sales", 0.0)
}

// Load lê config.yaml (opcional) e variáveis de ambiente. Variáveis comuns de deploy,
// como PORT e DATA_DIR, são aceitas sem o prefixo APP_.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("http.port", "PORT", "APP_HTTP_PORT")
	v.BindEnv("gin.mode", "GIN_MODE", "APP_GIN_MODE")
	v.BindEnv("logging.level", "LOG_LEVEL", "APP_LOGGING_LEVEL")
	v.BindEnv("data.dir", "DATA_DIR", "APP_DATA_DIR")
	v.BindEnv("data.base_hints", "BASE_HINTS", "APP_DATA_BASE_HINTS")
	v.BindEnv("data.classification_hints", "CLASSIFICATION_HINTS", "APP_DATA_CLASSIFICATION_HINTS")
	v.BindEnv("dashboard.top_n", "TOP_N", "APP_DASHBOARD_TOP_N")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("falha ao ler arquivo de configuração: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("falha ao decodificar configuração: %w", err)
	}
	cfg.Data.BaseHints = splitHints(cfg.Data.BaseHints)
	cfg.Data.ClassificationHints = splitHints(cfg.Data.ClassificationHints)

	cfg.Gin.Mode = strings.ToLower(strings.TrimSpace(cfg.Gin.Mode))
	switch cfg.Gin.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return nil, fmt.Errorf("modo do gin inválido %q: use %s, %s ou %s", cfg.Gin.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
	return &cfg, nil
}

// splitHints aceita tanto listas YAML quanto "a,b" vindo de variável de ambiente.
func splitHints(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
