package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database

	Redis     Redis     `envPrefix:"REDIS_"`
	Kafka     Kafka     `envPrefix:"KAFKA_"`
	Telemetry Telemetry `envPrefix:"OTEL_"`
	Gemini    Gemini    `envPrefix:"GEMINI_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8000"`
}

type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite, mysql, postgres
	URL    string `env:"DATABASE_URL" envDefault:"marketplace.db"`
}

// Redis is optional. Without a URL cart locks are held in-process.
type Redis struct {
	URL     string `env:"URL"`
	LockTTL int    `env:"LOCK_TTL_MS" envDefault:"10000"`
}

type Kafka struct {
	Brokers string `env:"BROKERS"` // comma separated, empty disables publishing
	Topic   string `env:"TOPIC" envDefault:"marketplace.orders"`
}

type Telemetry struct {
	Exporter    string `env:"EXPORTER" envDefault:"none"` // none, stdout, otlp
	Endpoint    string `env:"ENDPOINT" envDefault:"localhost:4317"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"food-marketplace"`
}

type Gemini struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	APIKey     string `env:"API_KEY"`
	Model      string `env:"MODEL" envDefault:"gemini-1.5-flash"`
}
