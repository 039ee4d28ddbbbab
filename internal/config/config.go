package config

// Config is the root application configuration. yaml tags match the on-disk
// config file; Default() is used when no file is present.

type Config struct {
	Logger  LoggerConfig  `yaml:"logger"`
	Server  ServerConfig  `yaml:"http-server"`
	Storage StorageConfig `yaml:"storage"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

// Default returns a baseline development config.
func Default() Config {
	return Config{
		Logger: LoggerConfig{
			Level: "INFO",
			JSON:  false,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Storage: StorageConfig{
			DataDir: "./data",
		},
	}
}
