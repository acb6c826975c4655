package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name declared in Config tags.
const EnvPrefix = "ACCOUNTKEEPER_"

// parseEnv overlays Config with ACCOUNTKEEPER_* environment variables.
//
// A dotenv file is loaded first: the path given with -env, or ./.env when it
// exists. Variables already present in the environment win over the file.
// Variables that are not set leave the current value untouched.
func parseEnv(config *Config) {
	if path := flagx.EnvFile(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load() // optional
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
