package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		TTL string `yaml:"ttl"`
	} `yaml:"questions"`
	Game struct {
		TimeLimit         int     `yaml:"timeLimit"`         // countdown seconds per question
		QuestionsPerGame  int     `yaml:"questionsPerGame"`  // capped at the prize ladder length
		CorrectDelay      string  `yaml:"correctDelay"`      // feedback pause after a correct answer
		WrongDelay        string  `yaml:"wrongDelay"`        // feedback pause after a miss
		DoubleChanceDelay string  `yaml:"doubleChanceDelay"` // feedback pause after a forgiven miss
		PhoneConfidence   float64 `yaml:"phoneConfidence"`
	} `yaml:"game"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
