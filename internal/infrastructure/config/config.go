package config

import "time"

type Config struct {
	Service *ServiceConfig
	HTTP    *HTTPConfig
	Logger  *LoggerConfig
	Hub     *HubConfig
	Store   *StoreConfig
	Chat    *ChatConfig
}

type ServiceConfig struct {
	Name string
	Env  string
}

type HTTPConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	IdleTimeout  time.Duration
	AllowOrigin  string
	ShutdownWait time.Duration
}

type LoggerConfig struct {
	Level    string
	Format   string // console, json, text
	Output   string // stdout, stderr, file
	FilePath string
}

type HubConfig struct {
	SweepInterval time.Duration
	Timeout       time.Duration
	SinkBuffer    int
}

type StoreConfig struct {
	Path string
}

type ChatConfig struct {
	TurnDelay             time.Duration
	SatisfactionThreshold int
	MaxTurns              int
}
