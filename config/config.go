package config

import (
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv. EnvRoot wins over
// EnvLegacyRoot when both are set.
const (
	EnvRoot       = "APIDOCS_ROOT"
	EnvLegacyRoot = "WOW_API_PATH"
)

const rootHint = "pass --root, set " + EnvRoot + " or " + EnvLegacyRoot + ", or set root in the config file"

// Layout holds corpus-relative locations of each pass's input.
type Layout struct {
	APIDir        string   `yaml:"api_dir"`
	DeprecatedDir string   `yaml:"deprecated_dir"`
	WikiDir       string   `yaml:"wiki_dir"`
	WidgetDir     string   `yaml:"widget_dir"`
	FrameworkDirs []string `yaml:"framework_dirs"`

	EnumFile           string `yaml:"enum_file"`
	EventFile          string `yaml:"event_file"`
	CVarFile           string `yaml:"cvar_file"`
	FlavorFile         string `yaml:"flavor_file"`
	DeprecatedListFile string `yaml:"deprecated_list_file"`
	MetadataFile       string `yaml:"metadata_file"`
}

// Config locates the corpus to load.
type Config struct {
	Root   string `yaml:"root"`
	Layout Layout `yaml:"layout"`
}

// DefaultLayout mirrors the vscode-wow-api extension repository.
func DefaultLayout() Layout {
	return Layout{
		APIDir:        "Annotations/Core/Blizzard_APIDocumentationGenerated",
		DeprecatedDir: "Annotations/Core/Blizzard_Deprecated",
		WikiDir:       "Annotations/Core/Wiki",
		WidgetDir:     "Annotations/Core/Widget",
		FrameworkDirs: []string{
			"Annotations/Core/FrameXML",
			"Annotations/Core/Libraries",
			"Annotations/Core/Lua",
		},
		EnumFile:           "Annotations/Core/Data/Enum.lua",
		EventFile:          "Annotations/Core/Data/Event.lua",
		CVarFile:           "Annotations/Core/Data/CVar.lua",
		FlavorFile:         "src/data/flavor.ts",
		DeprecatedListFile: "Annotations/Core/Type/Deprecated.lua",
		MetadataFile:       "package.json",
	}
}

// Default returns a Config with the default layout and no root.
func Default() Config {
	return Config{Layout: DefaultLayout()}
}

// LoadFile overlays the YAML file at path onto base. Keys absent from the
// file keep base's values.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Errorf("reading config %s: %w", path, err)
	}
	cfg := base
	cfg.Layout.FrameworkDirs = append([]string(nil), base.Layout.FrameworkDirs...)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, errors.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}
	return cfg, nil
}

// ApplyEnv overrides Root from the environment. lookup is usually
// os.LookupEnv.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) Config {
	for _, key := range []string{EnvRoot, EnvLegacyRoot} {
		if v, ok := lookup(key); ok && v != "" {
			cfg.Root = v
			return cfg
		}
	}
	return cfg
}

// Resolve checks that Root names an existing directory and returns cfg
// with Root made absolute.
func Resolve(cfg Config) (Config, error) {
	if cfg.Root == "" {
		return cfg, &ConfigurationError{Hint: rootHint, Err: ErrRootNotFound}
	}
	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return cfg, &ConfigurationError{Root: cfg.Root, Hint: rootHint, Err: errors.Errorf("%w: %v", ErrRootNotFound, err)}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return cfg, &ConfigurationError{Root: abs, Hint: rootHint, Err: errors.Errorf("%w: %v", ErrRootNotFound, err)}
	}
	if !info.IsDir() {
		return cfg, &ConfigurationError{Root: abs, Hint: rootHint, Err: errors.Errorf("%w: not a directory", ErrRootNotFound)}
	}
	cfg.Root = abs
	return cfg, nil
}

// Path joins a layout-relative path onto Root. Absolute paths are
// returned unchanged.
func (c Config) Path(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}
