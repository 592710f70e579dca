package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "test",
			Password: "test",
			Database: "test_db",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		SmartPay: SmartPayConfig{
			BaseURL:          "https://smartpay.example.com",
			User:             "agent01",
			Password:         "secret",
			SignType:         "MD5",
			TokenExpiryHours: 1,
			TokenTimeout:     20 * time.Second,
			RequestTimeout:   30 * time.Second,
			LockTTL:          30 * time.Second,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"port too low", 0},
		{"port negative", -1},
		{"port too high", 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_MissingBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.SmartPay.BaseURL = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "smartpay.base_url")
}

func TestConfig_Validate_UnsupportedSignType(t *testing.T) {
	tests := []struct {
		name     string
		signType string
		wantErr  bool
	}{
		{"md5 accepted", "MD5", false},
		{"hmac accepted", "HMAC-SHA256", false},
		{"sha1 rejected", "SHA1", true},
		{"empty rejected", "", true},
		{"lowercase rejected", "md5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.SmartPay.SignType = tt.signType

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "smartpay.sign_type")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate_InvalidLockTTL(t *testing.T) {
	cfg := validConfig()
	cfg.SmartPay.LockTTL = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "smartpay.lock_ttl")
}

func TestConfig_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "MD5", cfg.SmartPay.SignType)
	assert.Equal(t, 20*time.Second, cfg.SmartPay.TokenTimeout)
	assert.Equal(t, 30*time.Second, cfg.SmartPay.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.SmartPay.LockTTL)
	assert.Equal(t, "04", cfg.SmartPay.DefaultChannel)
	assert.Equal(t, 1, cfg.SmartPay.TokenExpiryHours)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := validConfig()
	dsn := cfg.Database.DatabaseDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=test_db")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
}
