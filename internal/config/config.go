package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

type CatalogConfig struct {
	// Path - YAML-каталог правил; пусто - встроенный каталог
	Path string `yaml:"path"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// GetCatalogPath возвращает путь к каталогу правил с поддержкой fallback значений
func (c *CatalogConfig) GetCatalogPath() string {
	return getWithEnvFallback(c.Path, "BLOCKEDIT_CATALOG", "")
}

// GetDataDir возвращает каталог хранилища шаблонов с поддержкой fallback значений
func (s *StorageConfig) GetDataDir() string {
	return getWithEnvFallback(s.DataDir, "BLOCKEDIT_DATA_DIR", "data")
}

// GetLevel возвращает уровень логирования с поддержкой fallback значений
func (l *LoggingConfig) GetLevel() string {
	return getWithEnvFallback(l.Level, "BLOCKEDIT_LOG_LEVEL", "INFO")
}

// GetDir возвращает каталог файлов логов; пусто - только консоль
func (l *LoggingConfig) GetDir() string {
	return getWithEnvFallback(l.Dir, "BLOCKEDIT_LOG_DIR", "")
}

// getWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getWithEnvFallback(configValue, envVar, defaultValue string) string {
	if configValue != "" {
		return configValue
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}

	return defaultValue
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать путь из ENV BLOCKEDIT_CONFIG;
// если и он не задан, возвращает пустую конфигурацию с дефолтами.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("BLOCKEDIT_CONFIG")
		if path == "" {
			return &Config{}, nil // конфиг не задан - использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
