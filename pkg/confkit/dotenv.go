package confkit

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotenvOnce loads a .env file the first time it is called. ENV_FILE
// points at an explicit file; otherwise .env files are tried from this
// package up to the module root. NO_DOTENV=1 disables loading and
// DOTENV_OVERLOAD=1 lets the file win over the process environment.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}

	load := godotenv.Load
	if os.Getenv("DOTENV_OVERLOAD") == "1" {
		load = godotenv.Overload
	}

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		_ = load(envFile)
		return
	}

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		_ = load(".env")
		return
	}
	dir := filepath.Dir(file)
	for i := 0; i < 8; i++ {
		_ = load(filepath.Join(dir, ".env"))
		if isModuleRoot(dir) {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
