package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Auth struct {
		Provider      string `yaml:"provider"` // "jwt" or "cognito"
		JWTSecret     string `yaml:"jwtSecret"`
		ExpiryMinutes int    `yaml:"expiryMinutes"`
	} `yaml:"auth"`

	Cognito struct {
		AppClientId     string `yaml:"appClientId"`
		AppClientSecret string `yaml:"appClientSecret"`
		UserPoolId      string `yaml:"userPoolId"`
		Region          string `yaml:"region"`
	} `yaml:"cognito"`

	Judge struct {
		Provider string `yaml:"provider"` // "gemini", "chat" or "argquality"
		Model    string `yaml:"model"`
	} `yaml:"judge"`

	Gemini struct {
		ApiKey string `yaml:"apiKey"`
	} `yaml:"gemini"`

	Openai struct {
		ApiKey string `yaml:"apiKey"`
		URL    string `yaml:"url"`
	} `yaml:"openai"`

	ArgQuality struct {
		URL string `yaml:"url"`
	} `yaml:"argquality"`

	Debate struct {
		TurnSeconds  int `yaml:"turnSeconds"`
		TotalSeconds int `yaml:"totalSeconds"`
		MinArguments int `yaml:"minArguments"`
	} `yaml:"debate"`
}

// LoadConfig reads the configuration file, then applies environment
// overrides. A .env file next to the binary is honoured when present.
func LoadConfig(path string) (*Config, error) {
	godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.Database.URI = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.ApiKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Openai.ApiKey = v
	}
	if v := os.Getenv("ARGQUALITY_URL"); v != "" {
		c.ArgQuality.URL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Auth.Provider == "" {
		c.Auth.Provider = "jwt"
	}
	if c.Auth.ExpiryMinutes == 0 {
		c.Auth.ExpiryMinutes = 24 * 60
	}
	if c.Judge.Provider == "" {
		c.Judge.Provider = "gemini"
	}
	if c.Debate.TurnSeconds == 0 {
		c.Debate.TurnSeconds = 120
	}
	if c.Debate.TotalSeconds == 0 {
		c.Debate.TotalSeconds = 1200
	}
	if c.Debate.MinArguments == 0 {
		c.Debate.MinArguments = 4
	}
}
