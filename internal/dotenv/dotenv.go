// Package dotenv loads environment files before flags are parsed.
package dotenv

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvVariable selects the runtime environment, e.g. dev, test or prod.
const EnvVariable = "APP_ENV"

// Load loads .env.<APP_ENV>.local, .env.local, .env.<APP_ENV> and .env from the working directory.
// Variables which are already set are never overwritten, so earlier files win.
func Load() {
	load("")
}

func load(dir string) {
	env := os.Getenv(EnvVariable)
	if env == "" {
		env = "dev"
	}

	for _, name := range []string{
		".env." + env + ".local",
		".env.local",
		".env." + env,
		".env",
	} {
		// missing files are fine
		_ = godotenv.Load(filepath.Join(dir, name))
	}
}
