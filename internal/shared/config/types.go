package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN returns the MySQL DSN. The sqlite driver uses Path instead.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

func (d *DatabaseConfig) IsSQLite() bool {
	return d.Driver == "sqlite"
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	Enabled      bool   `mapstructure:"enabled"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CredentialConfig controls one-time code issuance.
type CredentialConfig struct {
	CodeLength        int           `mapstructure:"code_length"`
	CodeTTL           time.Duration `mapstructure:"code_ttl"`
	AllowCombinedScan bool          `mapstructure:"allow_combined_scan"`
}

// AccessConfig controls the check-in gate.
type AccessConfig struct {
	CheckInLead       time.Duration `mapstructure:"check_in_lead"`
	HardenedDenials   bool          `mapstructure:"hardened_denials"`
	MaxFailedAttempts int           `mapstructure:"max_failed_attempts"`
	LockoutWindow     time.Duration `mapstructure:"lockout_window"`
	// GateRateLimit caps gate requests per client IP and minute; zero disables it.
	GateRateLimit int `mapstructure:"gate_rate_limit"`
}

type ApprovalConfig struct {
	ManagerPolicy string          `mapstructure:"manager_policy"`
	Routes        map[string]uint `mapstructure:"routes"`
}

type PersonConfig struct {
	ID      uint     `mapstructure:"id"`
	Name    string   `mapstructure:"name"`
	Email   string   `mapstructure:"email"`
	Phone   string   `mapstructure:"phone"`
	Company string   `mapstructure:"company"`
	Roles   []string `mapstructure:"roles"`
}

type DirectoryConfig struct {
	People []PersonConfig `mapstructure:"people"`
}

// JWTConfig holds the key the upstream gateway signs actor tokens with.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	Leeway time.Duration `mapstructure:"leeway"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}
