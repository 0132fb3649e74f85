package cmd

import (
	"context"
	"fmt"
	"strings"

	"db-gate/internal/access"
	"db-gate/internal/conn"
	"db-gate/internal/dialect"
	"db-gate/internal/hashing"
	"db-gate/internal/query"
	"db-gate/internal/transform"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

// activeDSN re-reads the active entry on every call, so the DSN in effect is
// whatever the configuration says when the connection is opened.
type activeDSN struct{}

func (activeDSN) ConnectionString(context.Context) (string, error) {
	cfg, err := GetActiveDBConfig()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return "", fmt.Errorf("database %q has no dsn", cfg.Name)
	}
	return cfg.DSN, nil
}

// session is everything a command needs to talk to the active database.
type session struct {
	config    *DBConfig
	dialect   dialect.Dialect
	connector conn.Connector
	hasher    hashing.Hasher
	engine    *access.Engine
}

func openSession() (*session, error) {
	cfg, err := GetActiveDBConfig()
	if err != nil {
		return nil, err
	}
	d, err := dialect.GetDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	h, err := hashing.New(
		viper.GetString("hashing.algorithm"),
		viper.GetInt("hashing.cost"),
		viper.GetInt("hashing.iterations"))
	if err != nil {
		return nil, err
	}

	c := &conn.DSNConnector{Driver: driverName(cfg.Driver), Provider: activeDSN{}}
	e := access.New(d, c, access.Options{
		Hasher:       h,
		DefaultLimit: viper.GetInt("settings.default_limit"),
		Logger:       Logger.With(zap.String("database", cfg.Name)),
	})
	return &session{config: cfg, dialect: d, connector: c, hasher: h, engine: e}, nil
}

// driverName maps config aliases onto the names the drivers register.
func driverName(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgresql":
		return "postgres"
	case "mssql":
		return "sqlserver"
	case "sqlite3":
		return "sqlite"
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}

// table resolves a table argument against --schema and the config's schema.
func (s *session) table(name string) query.Table {
	schema := schemaName
	if strings.TrimSpace(schema) == "" {
		schema = s.config.Schema
	}
	return query.Table{Schema: schema, Name: name}
}

// directive returns --encrypt, or settings.encrypted_fields when the flag
// was not given.
func directive() transform.Directive {
	if encrypted != "" {
		return transform.ParseDirective(encrypted)
	}
	return transform.ParseDirective(viper.GetString("settings.encrypted_fields"))
}
