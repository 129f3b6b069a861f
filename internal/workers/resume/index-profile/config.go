package indexprofile

import "time"

type Config struct {
	Timeout   time.Duration
	IndexName string
	Namespace string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		IndexName: "profiles",
		Namespace: "profiles",
	}
}
