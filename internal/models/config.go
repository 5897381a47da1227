package models

import (
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	ServerAddr   string `yaml:"server_addr"`
	DatabaseURL  string `yaml:"database_url"`
	StoragePath  string `yaml:"storage_path"`
	PublicPrefix string `yaml:"public_prefix"`
	KafkaBroker  string `yaml:"kafka_broker"`
	CleanupTopic string `yaml:"cleanup_topic"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	return &cfg, err
}
