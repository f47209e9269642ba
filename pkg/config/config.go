package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Ledger   LedgerConfig
	Storage  StorageConfig
	Events   EventsConfig
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
	Redis    RedisConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
// Driver "memory" levanta el ledger en memoria (desarrollo local, sin PostgreSQL).
type DBConfig struct {
	Driver      string // postgres | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT (validación de la sesión del bodeguero).
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LedgerConfig parámetros del ledger de stock.
type LedgerConfig struct {
	ZoneAName   string
	ZoneBName   string
	LockTimeout time.Duration // espera máxima por el bloqueo de un ítem; 0 = sin límite
	PhoneRegion string        // región por defecto para validar teléfonos de contacto (ISO 3166, ej. CO)
}

// StorageConfig almacenamiento de fotos de recepción y documentos.
type StorageConfig struct {
	Driver          string // gcs | local
	Bucket          string
	LocalDir        string
	CredentialsFile string
}

// EventsConfig destino de los eventos de movimiento: none | rabbitmq | pubsub.
type EventsConfig struct {
	Driver string
}

// PubSubConfig publicación de eventos en Google Cloud Pub/Sub.
type PubSubConfig struct {
	ProjectID       string
	Topic           string
	CredentialsFile string
}

// RabbitMQConfig publicación de eventos de movimiento.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// RedisConfig caché de lectura de resúmenes. Addr vacío = deshabilitado.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SummaryTTL time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, LEDGER_ZONE_A_NAME, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "stock-ledger"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      getString(v, "DB_DRIVER", "postgres"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "stock_ledger"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "stock-ledger"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Ledger: LedgerConfig{
			ZoneAName:   getString(v, "LEDGER_ZONE_A_NAME", "Zona A"),
			ZoneBName:   getString(v, "LEDGER_ZONE_B_NAME", "Zona B"),
			LockTimeout: time.Duration(getInt(v, "LEDGER_LOCK_TIMEOUT_MS", 5000)) * time.Millisecond,
			PhoneRegion: getString(v, "LEDGER_PHONE_REGION", "CO"),
		},
		Storage: StorageConfig{
			Driver:          getString(v, "STORAGE_DRIVER", "local"),
			Bucket:          getString(v, "STORAGE_BUCKET", ""),
			LocalDir:        getString(v, "STORAGE_LOCAL_DIR", "./uploads"),
			CredentialsFile: getString(v, "GCS_CREDENTIALS_FILE", ""),
		},
		Events: EventsConfig{
			Driver: getString(v, "EVENTS_DRIVER", "none"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getString(v, "RABBITMQ_URL", ""),
			Exchange: getString(v, "RABBITMQ_EXCHANGE", "stock_events"),
		},
		PubSub: PubSubConfig{
			ProjectID:       getString(v, "PUBSUB_PROJECT_ID", ""),
			Topic:           getString(v, "PUBSUB_TOPIC", "stock-movements"),
			CredentialsFile: getString(v, "GCS_CREDENTIALS_FILE", ""),
		},
		Redis: RedisConfig{
			Addr:       getString(v, "REDIS_ADDR", ""),
			Password:   getString(v, "REDIS_PASSWORD", ""),
			DB:         getInt(v, "REDIS_DB", 0),
			SummaryTTL: time.Duration(getInt(v, "REDIS_SUMMARY_TTL_SECONDS", 30)) * time.Second,
		},
	}

	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "memory" {
		return nil, fmt.Errorf("DB_DRIVER inválido: %q", cfg.DB.Driver)
	}
	switch cfg.Events.Driver {
	case "none":
	case "rabbitmq":
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL es obligatorio con EVENTS_DRIVER=rabbitmq")
		}
	case "pubsub":
		if cfg.PubSub.ProjectID == "" {
			return nil, fmt.Errorf("PUBSUB_PROJECT_ID es obligatorio con EVENTS_DRIVER=pubsub")
		}
	default:
		return nil, fmt.Errorf("EVENTS_DRIVER inválido: %q", cfg.Events.Driver)
	}
	if cfg.Storage.Driver != "gcs" && cfg.Storage.Driver != "local" {
		return nil, fmt.Errorf("STORAGE_DRIVER inválido: %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == "gcs" && cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("STORAGE_BUCKET es obligatorio con STORAGE_DRIVER=gcs")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
