package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gmi/internal/build"
	"gmi/internal/domain/config"
	"gmi/internal/logger"
	"gmi/internal/render"
	"gmi/internal/watch"
	"os"
	"strings"
)

const defaultConfigFile = "gmi.yaml"

// flag name -> config key
var flagKeys = map[string]string{
	"recursive":      "input.recursive",
	"extensions":     "input.extensions",
	"exclude":        "input.exclude",
	"output":         "export.output",
	"format":         "export.format",
	"author":         "export.default_author",
	"default-tags":   "export.default_tags",
	"include-images": "export.include_images",
	"index":          "export.index_path",
	"compact":        "export.compact",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"watch":          "watch.enabled",
	"debounce":       "watch.debounce",
	"verbose":        "log.verbose",
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GMI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfgFile string

	cmd := &cobra.Command{
		Use:   "gmi <input-dir>",
		Short: "Convert a directory of Markdown posts into a Ghost import file",
		Long: `gmi reads Markdown files with YAML front matter and writes a Ghost
import file (JSON, or a ZIP that can also carry the images).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cfgFile, args)
			if err != nil {
				return err
			}
			return runExport(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ./"+defaultConfigFile+" when present)")
	f.BoolP("recursive", "r", false, "process subdirectories")
	f.StringSlice("extensions", nil, "markdown file extensions (default .md)")
	f.StringSlice("exclude", nil, "skip files whose path contains any of these substrings")
	f.StringP("output", "o", "", "output file (default ./ghost-import.<format>)")
	f.StringP("format", "f", "", "output format: json or zip (default json)")
	f.String("author", "", "default author for posts without one")
	f.StringSlice("default-tags", nil, "tags registered before any post")
	f.Bool("include-images", false, "pack images found under the input directory into the zip")
	f.String("index", "", "also write a bbolt index of the export to this path")
	f.Bool("compact", false, "write compact JSON")
	f.String("log-level", "", "log level (default info)")
	f.String("log-format", "", "log format: text or json")
	f.BoolP("verbose", "v", false, "shorthand for --log-level debug")
	f.Bool("watch", false, "re-export whenever the input changes")
	f.Duration("debounce", 0, "watch debounce window (default 300ms)")

	for name, key := range flagKeys {
		_ = v.BindPFlag(key, f.Lookup(name))
	}

	cmd.AddCommand(newInspectCmd())
	return cmd
}

// loadConfig layers flags over environment over the config file over the
// built-in defaults.
func loadConfig(v *viper.Viper, cfgFile string, args []string) (config.Config, error) {
	path := cfgFile
	if path == "" {
		path = defaultConfigFile
	} else if _, err := os.Stat(path); err != nil {
		return config.Config{}, fmt.Errorf("config file: %w", err)
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if v.IsSet("input.dir") {
		cfg.Input.Dir = v.GetString("input.dir")
	}
	if len(args) > 0 {
		cfg.Input.Dir = args[0]
	}
	if v.IsSet("input.recursive") {
		cfg.Input.Recursive = v.GetBool("input.recursive")
	}
	if v.IsSet("input.extensions") {
		cfg.Input.Extensions = stringSlice(v, "input.extensions")
	}
	if v.IsSet("input.exclude") {
		cfg.Input.Exclude = stringSlice(v, "input.exclude")
	}

	if v.IsSet("export.output") {
		cfg.Export.Output = v.GetString("export.output")
	}
	if v.IsSet("export.format") {
		cfg.Export.Format = config.Format(strings.ToLower(v.GetString("export.format")))
	}
	if v.IsSet("export.default_author") {
		cfg.Export.DefaultAuthor = v.GetString("export.default_author")
	}
	if v.IsSet("export.default_tags") {
		cfg.Export.DefaultTags = stringSlice(v, "export.default_tags")
	}
	if v.IsSet("export.include_images") {
		cfg.Export.IncludeImages = v.GetBool("export.include_images")
	}
	if v.IsSet("export.index_path") {
		cfg.Export.IndexPath = v.GetString("export.index_path")
	}
	if v.GetBool("export.compact") {
		cfg.Export.Pretty = false
	}

	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.format") {
		cfg.Log.Format = v.GetString("log.format")
	}
	if v.GetBool("log.verbose") {
		cfg.Log.Level = "debug"
	}

	if v.IsSet("watch.enabled") {
		cfg.Watch.Enabled = v.GetBool("watch.enabled")
	}
	if v.IsSet("watch.debounce") {
		cfg.Watch.Debounce = v.GetDuration("watch.debounce")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// stringSlice also splits on commas so GMI_EXPORT_DEFAULT_TAGS=a,b works
// like --default-tags a,b.
func stringSlice(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func runExport(cmd *cobra.Command, cfg config.Config) error {
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	runner := &build.Runner{Cfg: cfg, Renderer: render.NewMarkdownRenderer()}
	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	renderSummary(out, res)

	if !cfg.Watch.Enabled {
		return nil
	}

	w, err := watch.New(cfg, runner)
	if err != nil {
		return err
	}
	defer w.Close()
	w.Seed(res.Fingerprint)
	w.OnResult = func(r *build.Result) { renderSummary(out, r) }

	return w.Run(ctx)
}
