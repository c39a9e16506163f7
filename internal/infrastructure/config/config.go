package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Ethereum EthereumConfig `mapstructure:"ethereum"`
	Models   ModelsConfig   `mapstructure:"models"`
	Registry RegistryConfig `mapstructure:"registry"`
	Neo4J    Neo4JConfig    `mapstructure:"neo4j"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Explain  ExplainConfig  `mapstructure:"explain"`
	API      APIConfig      `mapstructure:"api"`
}

// AppConfig represents application-specific configuration
type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	HTTPPort int    `mapstructure:"http_port"`
}

// EthereumConfig represents the blockchain RPC configuration
type EthereumConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	Network        string        `mapstructure:"network"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Enabled        bool          `mapstructure:"enabled"`
}

// ModelsConfig represents ML model artifact configuration
type ModelsConfig struct {
	Dir            string        `mapstructure:"dir"`
	FraudModel     string        `mapstructure:"fraud_model"`
	GasModel       string        `mapstructure:"gas_model"`
	TxClassifier   string        `mapstructure:"tx_classifier"`
	PredictTimeout time.Duration `mapstructure:"predict_timeout"`
}

// RegistryConfig selects the address/token registry backend
type RegistryConfig struct {
	Source   string        `mapstructure:"source"` // static or neo4j
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Neo4JConfig represents Neo4J configuration for the registry backend
type Neo4JConfig struct {
	URI                          string        `mapstructure:"uri"`
	Username                     string        `mapstructure:"username"`
	Password                     string        `mapstructure:"password"`
	Database                     string        `mapstructure:"database"`
	ConnectTimeout               time.Duration `mapstructure:"connect_timeout"`
	MaxConnectionPoolSize        int           `mapstructure:"max_connection_pool_size"`
	ConnectionAcquisitionTimeout time.Duration `mapstructure:"connection_acquisition_timeout"`
}

// NATSConfig represents the explanation event publisher configuration
type NATSConfig struct {
	URL               string        `mapstructure:"url"`
	Subject           string        `mapstructure:"subject"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
	ReconnectAttempts int           `mapstructure:"reconnect_attempts"`
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	Enabled           bool          `mapstructure:"enabled"`
}

// TokenTierConfig holds per-token value-tier cutoffs
type TokenTierConfig struct {
	SmallMax float64 `mapstructure:"small_max"`
	HighMin  float64 `mapstructure:"high_min"`
}

// ValueTiersConfig holds the value-tier cutoffs in native units
type ValueTiersConfig struct {
	SmallMax float64                    `mapstructure:"small_max"`
	HighMin  float64                    `mapstructure:"high_min"`
	Tokens   map[string]TokenTierConfig `mapstructure:"tokens"`
}

// ExplainConfig represents explanation pipeline tuning
type ExplainConfig struct {
	WhaleThresholdETH   float64          `mapstructure:"whale_threshold_eth"`
	SignificantETH      float64          `mapstructure:"significant_eth"`
	Stablecoins         []string         `mapstructure:"stablecoins"`
	LiquidityCategories []string         `mapstructure:"liquidity_categories"`
	TopK                int              `mapstructure:"top_k"`
	ETHPriceUSD         float64          `mapstructure:"eth_price_usd"`
	DecodeTimeout       time.Duration    `mapstructure:"decode_timeout"`
	ValueTiers          ValueTiersConfig `mapstructure:"value_tiers"`
}

// APIConfig represents HTTP server configuration
type APIConfig struct {
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Load loads configuration from environment variables and files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/tx-explainer")

	// Environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("")

	// Map environment variables to nested config keys
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Default values
	setDefaults()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.http_port", 8000)

	// Ethereum defaults
	viper.SetDefault("ethereum.rpc_url", "https://eth-mainnet.g.alchemy.com/v2/demo")
	viper.SetDefault("ethereum.network", "ethereum")
	viper.SetDefault("ethereum.request_timeout", "10s")
	viper.SetDefault("ethereum.enabled", true)

	// Model defaults
	viper.SetDefault("models.dir", "./models")
	viper.SetDefault("models.fraud_model", "fraud_model.json")
	viper.SetDefault("models.gas_model", "gas_fee_model.json")
	viper.SetDefault("models.tx_classifier", "tx_classifier.json")
	viper.SetDefault("models.predict_timeout", "2s")

	// Registry defaults
	viper.SetDefault("registry.source", "static")
	viper.SetDefault("registry.cache_ttl", "1h")

	// Neo4J defaults
	viper.SetDefault("neo4j.uri", "neo4j://localhost:7687")
	viper.SetDefault("neo4j.username", "neo4j")
	viper.SetDefault("neo4j.password", "password")
	viper.SetDefault("neo4j.database", "neo4j")
	viper.SetDefault("neo4j.connect_timeout", "10s")
	viper.SetDefault("neo4j.max_connection_pool_size", 50)
	viper.SetDefault("neo4j.connection_acquisition_timeout", "60s")

	// NATS defaults
	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.subject", "explanations.completed")
	viper.SetDefault("nats.connect_timeout", "10s")
	viper.SetDefault("nats.reconnect_attempts", 5)
	viper.SetDefault("nats.reconnect_delay", "2s")
	viper.SetDefault("nats.enabled", false)

	// Explanation defaults
	viper.SetDefault("explain.whale_threshold_eth", 100.0)
	viper.SetDefault("explain.significant_eth", 50.0)
	viper.SetDefault("explain.stablecoins", []string{"USDT", "USDC", "DAI"})
	viper.SetDefault("explain.liquidity_categories", []string{"Liquidity Provision", "Staking/Yield"})
	viper.SetDefault("explain.top_k", 5)
	viper.SetDefault("explain.eth_price_usd", 2500.0)
	viper.SetDefault("explain.decode_timeout", "15s")
	viper.SetDefault("explain.value_tiers.small_max", 1.0)
	viper.SetDefault("explain.value_tiers.high_min", 10.0)
	viper.SetDefault("explain.value_tiers.tokens.USDT.small_max", 1000.0)
	viper.SetDefault("explain.value_tiers.tokens.USDT.high_min", 10000.0)
	viper.SetDefault("explain.value_tiers.tokens.USDC.small_max", 1000.0)
	viper.SetDefault("explain.value_tiers.tokens.USDC.high_min", 10000.0)
	viper.SetDefault("explain.value_tiers.tokens.DAI.small_max", 1000.0)
	viper.SetDefault("explain.value_tiers.tokens.DAI.high_min", 10000.0)

	// API defaults
	viper.SetDefault("api.cors_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	})
	viper.SetDefault("api.read_timeout", "10s")
	viper.SetDefault("api.write_timeout", "30s")
	viper.SetDefault("api.idle_timeout", "60s")
	viper.SetDefault("api.request_timeout", "30s")

	// Bind env for RPC URL
	viper.BindEnv("ethereum.rpc_url", "RPC_URL")
}
