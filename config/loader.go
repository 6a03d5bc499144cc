package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/typedhttp/logger"
)

// FileSystem is the file access the loader needs. Tests swap it for a fake.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem reads from the real file system.
type OSFileSystem struct{}

// Exists reports whether path can be stat'ed.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv exports the variables of a dotenv file without overriding the
// ones already set.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds the loader dependencies and explicit file paths.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the file system used for lookups.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile skips the config.yml search and reads path instead.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile skips the .env search and reads path instead.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// ResolvedFiles are the files a load will read. Empty means none found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolver locates the config and env files of a service.
//
// Both are searched in cmd/<service>, then cmd/<suffix> where suffix is the
// part of the name after its last dash, then config/, then the working
// directory; each from ".", ".." and "../..". Env files named
// .env.<service> win over plain .env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolveFiles returns the explicit paths of opts, searching for the ones
// left empty.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	dirs := searchDirs(serviceName)
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(dirs, "config.yml")
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(dirs, ".env."+serviceName, ".env")
	}
	return files
}

// first returns the first existing file, trying every directory for a name
// before moving to the next name.
func (r *Resolver) first(dirs []string, names ...string) string {
	for _, name := range names {
		for _, dir := range dirs {
			if p := filepath.Join(dir, name); r.FileSystem.Exists(p) {
				return p
			}
		}
	}
	return ""
}

func searchDirs(serviceName string) []string {
	names := []string{serviceName}
	if i := strings.LastIndex(serviceName, "-"); i >= 0 && i < len(serviceName)-1 {
		names = append(names, serviceName[i+1:])
	}

	var rel []string
	for _, n := range names {
		rel = append(rel, filepath.Join("cmd", n))
	}
	for _, n := range names {
		rel = append(rel, filepath.Join("config", n))
	}
	rel = append(rel, "config", ".")

	var dirs []string
	for _, d := range rel {
		for _, up := range []string{".", "..", filepath.Join("..", "..")} {
			dirs = append(dirs, filepath.Join(up, d))
		}
	}
	return dirs
}

// LoadConfig fills cfg for serviceName. Values come, lowest precedence
// first, from config.yml, the .env file and the process environment.
// Unreadable files are logged and skipped; only a failed unmarshal is an
// error.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: OSFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(serviceName, lc)
	log := logger.WithComponent("config").WithFields(logger.Fields("service", serviceName))

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn("skipping unreadable config file", logger.MergeWithError(logger.Fields("file", files.ConfigFile), err))
		}
	}
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("skipping unreadable env file", logger.MergeWithError(logger.Fields("file", files.EnvFile), err))
		}
	}
	v.AutomaticEnv()
	bindEnviron(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config for service %s: %w", serviceName, err)
	}
	return nil
}

// bindEnviron sets every KEY=value pair under each nesting its key could
// stand for, so HTTP_RETRY_MAX_ATTEMPTS reaches http.retry.max_attempts.
func bindEnviron(v *viper.Viper, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		for _, k := range generateEnvKeyVariants(key) {
			v.Set(k, value)
		}
	}
}

// generateEnvKeyVariants lower-cases envKey and lists it flat, fully dotted,
// and dotted at each split point with the remainder kept in snake case:
//
//	HTTP_BASE_URL -> http_base_url, http.base.url, http.base_url
func generateEnvKeyVariants(envKey string) []string {
	flat := strings.ToLower(envKey)
	parts := strings.Split(flat, "_")
	if len(parts) == 1 {
		return []string{flat}
	}

	variants := []string{flat, strings.Join(parts, ".")}
	seen := map[string]bool{variants[0]: true, variants[1]: true}
	for i := 1; i < len(parts)-1; i++ {
		k := strings.Join(parts[:i], ".") + "." + strings.Join(parts[i:], "_")
		if !seen[k] {
			seen[k] = true
			variants = append(variants, k)
		}
	}
	return variants
}
