package config

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath        = "testdata/valid_config.yaml"
	expansionConfigPath    = "testdata/expansion_config.yaml"
	nonexistentConfigPath  = "testdata/nonexistent_config.yaml"
	expectedNoErrorMsg     = "expected no error, got %v"
	expectedNonNilConfig   = "expected non-nil config"
	valueStakerName        = "value-staker"
	developmentEnv         = "development"
	localhostHost          = "localhost"
	postgresPort           = 5432
	postgresPrefix         = "postgres://"
	testAppName            = "test-app"
	testDBPassword         = "TEST_DB_PASSWORD"
	testFeedAPIKey         = "TEST_FEED_API_KEY"
	expandedSecretValue    = "expanded_secret_value"
	expectedValidationFail = "expected validation error"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}
	return cfg
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	if cfg.App.Name != valueStakerName {
		t.Errorf("expected app name '%s', got '%s'", valueStakerName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}
	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}
	if cfg.Staking.InitialBankroll != 10000 || cfg.Staking.Fraction != 3 {
		t.Errorf("unexpected staking config: %+v", cfg.Staking)
	}
	if len(cfg.Scheduler.Countries) != 2 {
		t.Errorf("expected 2 scheduler countries, got %d", len(cfg.Scheduler.Countries))
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("VALUE_STAKER_APP_NAME", testAppName)

	cfg := loadValid(t)
	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

func TestLoadConfigExpandsPlaceholders(t *testing.T) {
	t.Setenv(testDBPassword, expandedSecretValue)
	t.Setenv(testFeedAPIKey, "feed-key")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected expanded password, got '%s'", cfg.Database.Password)
	}
	if cfg.Feed.APIKey != "feed-key" {
		t.Errorf("expected expanded api key, got '%s'", cfg.Feed.APIKey)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Staking.InitialBankroll != 10000 {
		t.Errorf("expected default bankroll 10000, got %v", cfg.Staking.InitialBankroll)
	}
	if cfg.Staking.Fraction != 3 {
		t.Errorf("expected default fraction 3, got %v", cfg.Staking.Fraction)
	}
	if cfg.Staking.MinBankroll != 100 || cfg.Staking.MinStake != 50 {
		t.Errorf("unexpected floor defaults: %+v", cfg.Staking)
	}
	if cfg.Staking.SubFloorPolicy != "deduct" {
		t.Errorf("expected deduct policy, got '%s'", cfg.Staking.SubFloorPolicy)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// TestValidateConfigSuccess tests successful validation
func TestValidateConfigSuccess(t *testing.T) {
	if err := Validate(loadValid(t)); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidateConfigFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"invalid environment", func(c *Config) { c.App.Environment = "invalid" }, "Environment"},
		{"invalid log level", func(c *Config) { c.App.LogLevel = "trace" }, "LogLevel"},
		{"zero fraction", func(c *Config) { c.Staking.Fraction = 0 }, "Fraction"},
		{"negative bankroll", func(c *Config) { c.Staking.InitialBankroll = -1 }, "InitialBankroll"},
		{"unknown sub floor policy", func(c *Config) { c.Staking.SubFloorPolicy = "ignore" }, "SubFloorPolicy"},
		{"unknown feed type", func(c *Config) { c.Feed.Type = "ftp" }, "Type"},
		{"database enabled without host", func(c *Config) { c.Database.Host = "" }, "Host"},
		{"file feed without directory", func(c *Config) { c.Feed.PredictionsDir = "" }, "predictions_dir"},
		{"http feed without urls", func(c *Config) { c.Feed.Type = "http" }, "predictions_url"},
		{"database feed without database", func(c *Config) {
			c.Feed.Type = "database"
			c.Database.Enabled = false
		}, "database.enabled"},
		{"production without ssl", func(c *Config) { c.App.Environment = "production" }, "SSL"},
		{"bad schedule", func(c *Config) { c.Scheduler.Schedule = "every now and then" }, "schedule"},
		{"min stake above bankroll", func(c *Config) { c.Staking.MinStake = 20000 }, "min_stake"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal(expectedValidationFail)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("expected error to mention '%s', got: %v", tt.message, err)
			}
		})
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg := loadValid(t)

	dsn := cfg.GetDatabaseDSN()
	if !strings.HasPrefix(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("expected sslmode in DSN, got '%s'", dsn)
	}
}

func TestDurations(t *testing.T) {
	cfg := &Config{}
	if cfg.FeedTimeout().Seconds() != 30 {
		t.Errorf("expected default feed timeout of 30s, got %v", cfg.FeedTimeout())
	}
	if cfg.RequestTimeout().Seconds() != 30 {
		t.Errorf("expected default request timeout of 30s, got %v", cfg.RequestTimeout())
	}

	cfg.Cache.TTLSeconds = 60
	if cfg.CacheTTL().Seconds() != 60 {
		t.Errorf("expected cache ttl of 60s, got %v", cfg.CacheTTL())
	}
}

func TestOverlaySecrets(t *testing.T) {
	cfg := loadValid(t)

	secrets, err := parseSecretData(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"from-aws","feed_api_key":"aws-key"}`),
	})
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	overlaySecretsOnConfig(cfg, secrets)

	if cfg.Database.Password != "from-aws" {
		t.Errorf("expected overlaid password, got '%s'", cfg.Database.Password)
	}
	if cfg.Feed.APIKey != "aws-key" {
		t.Errorf("expected overlaid api key, got '%s'", cfg.Feed.APIKey)
	}

	if _, err := parseSecretData(&secretsmanager.GetSecretValueOutput{}); err != errNoSecretDataFound {
		t.Errorf("expected errNoSecretDataFound, got %v", err)
	}
}
