package calculatematchscore

import "time"

type Config struct {
	CacheTTL      time.Duration
	Timeout       time.Duration
	UseSimilarity bool
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:      time.Hour,
		Timeout:       10 * time.Second,
		UseSimilarity: true,
	}
}
