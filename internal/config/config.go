package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Env           string `mapstructure:"env"`
		Port          string `mapstructure:"port"`
		PublicBaseURL string `mapstructure:"public_base_url"`
	} `mapstructure:"app"`
	DB struct {
		Driver        string `mapstructure:"driver"`
		DSN           string `mapstructure:"dsn"`
		MongoURI      string `mapstructure:"mongo_uri"`
		MongoDatabase string `mapstructure:"mongo_database"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Client struct {
		DeviceID          string        `mapstructure:"device_id"`
		ConnectivityProbe string        `mapstructure:"connectivity_probe"`
		ProbeTimeout      time.Duration `mapstructure:"probe_timeout"`
		NotificationTTL   time.Duration `mapstructure:"notification_ttl"`
	} `mapstructure:"client"`
	Tracing struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"tracing"`
}

// LoadConfig reads .env, then config.yaml from the given directories (default "."),
// then environment variables.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	envFiles := make([]string, 0, len(paths))
	for _, p := range paths {
		envFiles = append(envFiles, strings.TrimSuffix(p, "/")+"/.env")
	}
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.public_base_url", "PUBLIC_BASE_URL")
	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("db.mongo_uri", "MONGO_URI")
	v.BindEnv("db.mongo_database", "MONGO_DATABASE")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	v.BindEnv("client.device_id", "PILOT_DEVICE_ID")
	v.BindEnv("client.connectivity_probe", "PILOT_CONNECTIVITY_PROBE")
	v.BindEnv("client.probe_timeout", "PILOT_PROBE_TIMEOUT")
	v.BindEnv("client.notification_ttl", "PILOT_NOTIFICATION_TTL")
	v.BindEnv("tracing.otlp_endpoint", "OTLP_ENDPOINT")

	err = v.Unmarshal(&cfg)
	if err == nil {
		cfg.Kafka.Brokers = splitBrokers(cfg.Kafka.Brokers)
	}
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.public_base_url", "http://localhost:8080/")
	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.mongo_database", "portfolio_pilot")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("auth.token_lifespan", 72*time.Hour)
	v.SetDefault("client.device_id", "default")
	v.SetDefault("client.connectivity_probe", "1.1.1.1:53")
	v.SetDefault("client.probe_timeout", 2*time.Second)
	v.SetDefault("client.notification_ttl", 3*time.Second)
}

// KAFKA_BROKERS arrives as one comma separated string from the environment.
func splitBrokers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, b := range in {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
