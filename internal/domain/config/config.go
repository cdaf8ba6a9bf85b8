package config

import (
	domainerr "gmi/internal/domain/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	Input  InputConfig  `yaml:"input"`
	Export ExportConfig `yaml:"export"`
	Log    LogConfig    `yaml:"log"`
	Watch  WatchConfig  `yaml:"watch"`

	Now func() time.Time `yaml:"-"`
}

type InputConfig struct {
	Dir        string   `yaml:"dir"`
	Recursive  bool     `yaml:"recursive"`
	Extensions []string `yaml:"extensions"`
	Exclude    []string `yaml:"exclude"`
}

type Format string

const (
	FormatJSON Format = "json"
	FormatZip  Format = "zip"
)

type ExportConfig struct {
	Output        string   `yaml:"output"`
	Format        Format   `yaml:"format"`
	DefaultAuthor string   `yaml:"default_author"`
	DefaultTags   []string `yaml:"default_tags"`
	IncludeImages bool     `yaml:"include_images"`
	IndexPath     string   `yaml:"index_path"`
	Pretty        bool     `yaml:"pretty"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

func Default() Config {
	return Config{
		Input: InputConfig{
			Extensions: []string{".md"},
		},
		Export: ExportConfig{
			Format: FormatJSON,
			Pretty: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Now: time.Now,
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Input.Dir) == "" {
		ve.Add("input.dir", "must not be empty")
	}
	if len(c.Input.Extensions) == 0 {
		ve.Add("input.extensions", "must list at least one extension")
	}

	switch c.Export.Format {
	case FormatJSON:
		if c.Export.IncludeImages {
			ve.Add("export.include_images", "requires format 'zip'")
		}
	case FormatZip:
	default:
		ve.Add("export.format", "must be 'json' or 'zip'")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		ve.Add("log.level", "must be one of trace, debug, info, warn, error, fatal, panic")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		ve.Add("log.format", "must be 'text' or 'json'")
	}

	if c.Watch.Enabled && c.Watch.Debounce <= 0 {
		ve.Add("watch.debounce", "must be positive")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// ResolveOutput returns where the export is written. Without an explicit
// output the file lands in the working directory as ghost-import.<format>.
func (c Config) ResolveOutput() string {
	ext := "." + string(c.Export.Format)
	out := strings.TrimSpace(c.Export.Output)
	if out == "" {
		return "ghost-import" + ext
	}
	if filepath.Ext(out) != ext {
		out += ext
	}
	return out
}

// Clock returns Now, falling back to time.Now for configs built by hand.
func (c Config) Clock() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

func Load(path string) (Config, error) {
	cfg, err := read(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load without validation, and a missing file is not an
// error. Callers fill the rest in from flags before validating.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := read(path)
	if err != nil && os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}

func read(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// 直接 Unmarshal 到 cfg 上：文件中写到的字段覆盖默认值，其他字段保留 Default
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
