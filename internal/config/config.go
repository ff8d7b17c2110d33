package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Delivery   DeliveryConfig   `yaml:"delivery"`
	Redis      RedisConfig      `yaml:"redis"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name     string `yaml:"name" env-required:"true"`
}

// JWTConfig настройка jwt
type JWTConfig struct {
	Secret   string `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	TokenTTL int    `yaml:"token_ttl" env-default:"60"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// DeliveryConfig — параметры расчёта доставки: координаты пиццерии,
// адрес геокодера и тарифная сетка
type DeliveryConfig struct {
	GeocoderURL     string        `yaml:"geocoder_url" env-default:"https://nominatim.openstreetmap.org/search"`
	GeocoderTimeout time.Duration `yaml:"geocoder_timeout" env-default:"5s"`
	StoreLat        float64       `yaml:"store_lat" env-default:"40.7128"`
	StoreLon        float64       `yaml:"store_lon" env-default:"-74.0060"`
	NearThresholdKm float64       `yaml:"near_threshold_km" env-default:"10"`
	NearCharge      float64       `yaml:"near_charge" env-default:"2.00"`
	FarCharge       float64       `yaml:"far_charge" env-default:"3.00"`
	// FailOpen: при недоступном геокодере оформлять заказ с нулевой доставкой
	// вместо отказа в чекауте
	FailOpen bool `yaml:"fail_open" env-default:"true"`
}

// RedisConfig — общая шина для рассылки событий нескольким инстансам.
// При выключенной шине события расходятся только по подключениям этого процесса.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	Address string `yaml:"address" env-default:"localhost:6379"`
	Channel string `yaml:"channel" env-default:"pizza:events"`
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s", configPath)
	}

	return &cfg
}
