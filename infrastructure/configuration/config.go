package configuration

import (
	"fmt"
	"os"
	"strconv"

	"meta-ads-setup/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Graph       Graph       `json:"graph"`
	OAuth       OAuth       `json:"oauth"`
	Session     Session     `json:"session"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// Graph points at the Meta Graph API. Host is overridable so tests can target
// a local server.
type Graph struct {
	Host    string `json:"host"`
	Version string `json:"version"`
}

// OAuth holds the server-side pieces of the authorization flow. The app
// id/secret themselves are user-entered per wizard session; only the redirect
// URI and dialog host are deployment configuration.
type OAuth struct {
	Meta OAuthClient `json:"meta"`
}

type OAuthClient struct {
	AuthHost    string `json:"authHost"`
	RedirectURI string `json:"redirectURI"`
}

// Session selects the durable store backend: postgres, redis, or memory.
type Session struct {
	Backend string `json:"backend"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initGraph(&C)
	// Prefer https redirect URIs locally when TLS enabled
	if C.App.TLSEnabled {
		if C.OAuth.Meta.RedirectURI != "" && !hasHTTPS(C.OAuth.Meta.RedirectURI) {
			C.OAuth.Meta.RedirectURI = toHTTPSCallback(C.OAuth.Meta.RedirectURI)
		}
	}
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}

	if C.RedisClient.Host == "" {
		C.RedisClient.Host = os.Getenv("REDIS_HOST")
	}
	if C.RedisClient.Port == "" {
		if v := os.Getenv("REDIS_PORT"); v != "" {
			C.RedisClient.Port = v
		} else {
			C.RedisClient.Port = "6379"
		}
	}
	if C.RedisClient.Password == "" {
		C.RedisClient.Password = os.Getenv("REDIS_PASSWORD")
	}

	if C.Session.Backend == "" {
		if v := os.Getenv("SESSION_BACKEND"); v != "" {
			C.Session.Backend = v
		}
	}
}

func initApp(C *Config) {
	// Prefer SECRET_KEY from environment for session cookie signing
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10080
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10080
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; session cookies will not survive restarts. Provide SECRET_KEY via environment.")
	}
}

func initGraph(C *Config) {
	if C.Graph.Host == "" {
		C.Graph.Host = "https://graph.facebook.com"
	}
	if C.Graph.Version == "" {
		C.Graph.Version = "v18.0"
	}
	if C.OAuth.Meta.AuthHost == "" {
		C.OAuth.Meta.AuthHost = "https://www.facebook.com"
	}
	if C.OAuth.Meta.RedirectURI == "" {
		if v := os.Getenv("OAUTH_REDIRECT_URI"); v != "" {
			C.OAuth.Meta.RedirectURI = v
		} else {
			C.OAuth.Meta.RedirectURI = fmt.Sprintf("http://localhost:%d/oauth-callback", C.App.Port)
		}
	}
}

// helpers to coerce local callback to https
func hasHTTPS(u string) bool { return len(u) >= 8 && u[:8] == "https://" }
func toHTTPSCallback(u string) string {
	// simple swap for localhost callbacks
	if len(u) >= 7 && u[:7] == "http://" {
		return "https://" + u[7:]
	}
	return u
}
