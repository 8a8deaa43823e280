// Package project locates and parses vela.toml, the per-project manifest
// that configures a verification run.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"vela/internal/diag"
)

// ManifestName is the file the manifest lookup walks up the tree for.
const ManifestName = "vela.toml"

// Config mirrors the TOML layout of vela.toml.
type Config struct {
	Package  PackageConfig     `toml:"package"`
	Verify   VerifyConfig      `toml:"verify"`
	Severity map[string]string `toml:"severity"`
	Platform PlatformConfig    `toml:"platform"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// VerifyConfig tunes one verification pass. Zero values mean "use the
// built-in default"; flags on the command line win over the manifest.
type VerifyConfig struct {
	Jobs           int  `toml:"jobs"`
	MaxDiagnostics int  `toml:"max-diagnostics"`
	NoCache        bool `toml:"no-cache"`
}

// PlatformConfig names the libraries treated as shipped with the SDK.
// Internal-import restrictions key off this list.
type PlatformConfig struct {
	Libraries []string `toml:"libraries"`
}

// Manifest is a parsed vela.toml plus where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// DefaultMaxDiagnostics caps a bag when neither manifest nor flag says
// otherwise.
const DefaultMaxDiagnostics = 256

// Find walks from startDir toward the filesystem root looking for vela.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest governing startDir. The second return
// is false when no manifest exists, which is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// Parse decodes manifest content without touching the filesystem.
func Parse(path string, content []byte) (*Manifest, error) {
	cfg, err := decodeConfig(path, string(content))
	if err != nil {
		return nil, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

func loadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path comes from Find
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to read manifest: %w", path, err)
	}
	return decodeConfig(path, string(content))
}

func decodeConfig(path, content string) (Config, error) {
	var cfg Config
	meta, err := toml.Decode(content, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if cfg.Verify.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [verify].jobs must be >= 0", path)
	}
	if cfg.Verify.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [verify].max-diagnostics must be >= 0", path)
	}
	if _, err := severityOverrides(path, cfg.Severity); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SeverityOverrides maps the [severity] table onto typed codes. Validation
// already happened at decode time, so this cannot fail on a loaded manifest.
func (m *Manifest) SeverityOverrides() map[diag.Code]diag.Severity {
	if m == nil {
		return nil
	}
	out, err := severityOverrides(m.Path, m.Config.Severity)
	if err != nil {
		return nil
	}
	return out
}

func severityOverrides(path string, table map[string]string) (map[diag.Code]diag.Severity, error) {
	if len(table) == 0 {
		return nil, nil
	}
	out := make(map[diag.Code]diag.Severity, len(table))
	for id, sevName := range table {
		code, ok := diag.ParseCodeID(id)
		if !ok {
			return nil, fmt.Errorf("%s: [severity]: unknown diagnostic code %q", path, id)
		}
		sev, ok := diag.ParseSeverity(sevName)
		if !ok {
			return nil, fmt.Errorf("%s: [severity]: unknown severity %q for %s", path, sevName, id)
		}
		out[code] = sev
	}
	return out, nil
}

// MaxDiagnostics resolves the configured cap, falling back to the default.
func (m *Manifest) MaxDiagnostics() int {
	if m == nil || m.Config.Verify.MaxDiagnostics == 0 {
		return DefaultMaxDiagnostics
	}
	return m.Config.Verify.MaxDiagnostics
}

// Jobs resolves the configured parallelism; 0 means "let the driver decide".
func (m *Manifest) Jobs() int {
	if m == nil {
		return 0
	}
	return m.Config.Verify.Jobs
}

// IsPlatformLibrary reports whether name is on the manifest allowlist.
func (m *Manifest) IsPlatformLibrary(name string) bool {
	if m == nil {
		return false
	}
	for _, lib := range m.Config.Platform.Libraries {
		if lib == name {
			return true
		}
	}
	return false
}
