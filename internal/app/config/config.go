package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config - configuração do serviço carregada do ambiente
type Config struct {
	ServiceHost string `env:"SERVICE_HOST" envDefault:"0.0.0.0"`
	ServicePort int    `env:"SERVICE_PORT" envDefault:"8083"`

	EnableHTTPS bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFile    string `env:"CERT_FILE"`
	KeyFile     string `env:"KEY_FILE"`

	JWTSecret             string        `env:"JWT_SECRET" envDefault:"dev-secret"`
	JWTAccessTokenExpire  time.Duration `env:"JWT_ACCESS_EXPIRE" envDefault:"15m"`
	JWTRefreshTokenExpire time.Duration `env:"JWT_REFRESH_EXPIRE" envDefault:"168h"`

	// Gateway SEFAZ (ponte ACBr)
	GatewayBaseURL string        `env:"MDFE_GATEWAY_URL" envDefault:"http://localhost:3434"`
	GatewayTimeout time.Duration `env:"MDFE_GATEWAY_TIMEOUT" envDefault:"30s"`
}

// NewConfig - carrega a configuração a partir das variáveis de ambiente
func NewConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return &cfg, nil
}
