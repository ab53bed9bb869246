package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the file name searched for by LoadEnvFiles.
const DefaultEnvFile = ".env"

// EnvFiles returns every file called name in dir and its parent
// directories, closest first. dir defaults to the working directory.
func EnvFiles(dir, name string) ([]string, error) {
	if name == "" {
		name = DefaultEnvFile
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	var envFiles []string
	for {
		envPath := filepath.Join(dir, name)
		if info, err := os.Stat(envPath); err == nil && !info.IsDir() {
			envFiles = append(envFiles, envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return envFiles, nil
}

// LoadEnvFiles loads the files found by EnvFiles from the working directory
// into the process environment and returns their paths. Variables already
// set are kept, and files closer to the working directory take precedence.
func LoadEnvFiles(name string) ([]string, error) {
	envFiles, err := EnvFiles("", name)
	if err != nil {
		return nil, err
	}
	if len(envFiles) == 0 {
		return nil, nil
	}
	if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}
	return envFiles, nil
}
