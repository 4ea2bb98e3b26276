package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppName  string
	Env      string // DEV (local; default), TEST, QA, PROD
	Debug    bool
	TestMode bool
	Build    string

	RollbarToken string

	// SessionDir is where the login flow persists the signed-in session.
	// This module only ever reads from it.
	SessionDir string

	API struct {
		BaseURL        string
		RequestTimeout time.Duration
		// LiveInterval is the re-fetch period of the live results poller.
		LiveInterval time.Duration
	}
}

// NewConfig loads the configuration from defaults, an optional
// config/.env.<env> file and prefixed environment variables.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "Bosvote")
	v.SetDefault("debug", true)
	v.SetDefault("sessionDir", filepath.Join(homeDir(), ".bosvote"))
	v.SetDefault("api.baseURL", "http://localhost:8000")
	v.SetDefault("api.requestTimeout", 10*time.Second)
	v.SetDefault("api.liveInterval", 5*time.Second)

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		SessionDir:   v.GetString("sessionDir"),
	}
	conf.API.BaseURL = strings.TrimRight(v.GetString("api.baseURL"), "/")
	conf.API.RequestTimeout = v.GetDuration("api.requestTimeout")
	conf.API.LiveInterval = v.GetDuration("api.liveInterval")
	return conf
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
