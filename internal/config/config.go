package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	// Dataset: generated from a fixed seed unless a SQLite snapshot is given
	SeedRecords int
	SeedValue   int64
	SQLitePath  string
	// Result cache (client side)
	CacheTTL      time.Duration
	CacheCapacity int
	// Search orchestrator
	Debounce time.Duration
	// Transport
	QueryServiceURL  string
	TransportTimeout time.Duration
	// Redis Configuration (optional - server response cache)
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ResponseCacheTTL int  // seconds
	UseCache         bool // Whether to cache responses in Redis or not
	// Kafka Configuration (optional - response cache invalidation)
	KafkaBrokers    []string
	KafkaTopicStock string
	KafkaGroupID    string
	UseKafka        bool
}

func Load() *Config {
	// .env file is optional, continue with environment variables
	_ = godotenv.Load()

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9093"), ",")
	for i, broker := range kafkaBrokers {
		kafkaBrokers[i] = strings.TrimSpace(broker)
	}

	return &Config{
		Port:        getEnv("PORT", "8081"),
		Environment: getEnv("ENVIRONMENT", "development"),
		SeedRecords: getEnvAsInt("SEED_RECORDS", 120),
		SeedValue:   int64(getEnvAsInt("SEED_VALUE", 42)),
		SQLitePath:  getEnv("SQLITE_PATH", ""),
		// Result cache
		CacheTTL:      time.Duration(getEnvAsInt("CACHE_TTL", 60)) * time.Second,
		CacheCapacity: getEnvAsInt("CACHE_CAPACITY", 5),
		Debounce:      time.Duration(getEnvAsInt("DEBOUNCE_MS", 50)) * time.Millisecond,
		// Transport
		QueryServiceURL:  getEnv("QUERY_SERVICE_URL", "http://localhost:8081"),
		TransportTimeout: time.Duration(getEnvAsInt("TRANSPORT_TIMEOUT_MS", 3000)) * time.Millisecond,
		// Redis Configuration (optional)
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		ResponseCacheTTL: getEnvAsInt("RESPONSE_CACHE_TTL", 30),
		UseCache:         getEnvAsBool("USE_CACHE", false),
		// Kafka Configuration (optional)
		KafkaBrokers:    kafkaBrokers,
		KafkaTopicStock: getEnv("KAFKA_TOPIC_STOCK", "inventory.stock"),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "inventory-search"),
		UseKafka:        getEnvAsBool("USE_KAFKA", false),
	}
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.ToLower(value) == "true" || value == "1"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}
