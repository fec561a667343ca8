package dotenv

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// EnvName selects which layered .env files are loaded.
	EnvName = "THR_ENV"

	DevEnv  = "dev"
	TestEnv = "test"
	ProdEnv = "prod"
)

// CurrentEnv returns the runtime environment, "dev" when unset.
func CurrentEnv() string {
	env := os.Getenv(EnvName)
	if env == "" {
		return DevEnv
	}
	return env
}

func IsProdEnv() bool {
	return CurrentEnv() == ProdEnv
}

// LoadDotEnvs loads the .env files following the convention:
// https://github.com/bkeepers/dotenv#what-other-env-files-can-i-use
// It only needs to be called once in main, other code reads the values through
// os.Getenv during runtime.
func LoadDotEnvs() error {
	loadDotEnvs("")
	return nil
}

func loadDotEnvs(rootPath string) {
	env := CurrentEnv()

	// .env.[runtime_env].local has highest priority, usually contains username and password and other sensitive information
	godotenv.Load(rootPath + ".env." + env + ".local")
	godotenv.Load(rootPath + ".env.local")
	// .env.[runtime_env] usually contains db connection information
	godotenv.Load(rootPath + ".env." + env)
	// .env usually contains shared variables(which might be overwritten by envs above)
	godotenv.Load(rootPath + ".env")
}

// LoadDotEnvsInTests walks up from the working directory until it finds the
// module root, then loads .env.test from there. Go tests run inside the
// package directory so relative paths don't work.
// https://github.com/joho/godotenv/issues/43
func LoadDotEnvsInTests() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			godotenv.Load(filepath.Join(dir, ".env."+TestEnv))
			return nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}
