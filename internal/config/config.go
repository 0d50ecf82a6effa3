package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/roach88/datatable/internal/row"
	"github.com/roach88/datatable/internal/table"
)

// Config holds application configuration.
type Config struct {
	Table  TableConfig  `mapstructure:"table"`
	Store  StoreConfig  `mapstructure:"store"`
	Output OutputConfig `mapstructure:"output"`
}

// TableConfig holds the defaults applied to every table the CLI builds.
type TableConfig struct {
	PageSize     int    `mapstructure:"page_size"`
	Searchable   bool   `mapstructure:"searchable"`
	Selectable   bool   `mapstructure:"selectable"`
	EmptyMessage string `mapstructure:"empty_message"`
	Locale       string `mapstructure:"locale"`
	IDField      string `mapstructure:"id_field"`
}

// StoreConfig holds sqlite settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// OutputConfig holds presentation settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// DATATABLE_ (e.g. DATATABLE_TABLE_PAGE_SIZE).
//
// path names an explicit config file; when empty, DATATABLE_CONFIG is
// consulted, then ~/.config/datatable/config.{toml,yaml}. A missing file is
// only an error when it was named explicitly.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("table.page_size", table.DefaultPageSize)
	v.SetDefault("table.searchable", true)
	v.SetDefault("table.selectable", false)
	v.SetDefault("table.empty_message", table.DefaultEmptyMessage)
	v.SetDefault("table.locale", "en")
	v.SetDefault("table.id_field", row.DefaultIDField)
	v.SetDefault("store.path", "")
	v.SetDefault("output.format", "text")

	if path == "" {
		path = os.Getenv("DATATABLE_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "datatable"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DATATABLE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges that viper cannot express.
func (c Config) Validate() error {
	if c.Table.PageSize < 1 {
		return fmt.Errorf("table.page_size must be at least 1, got %d", c.Table.PageSize)
	}
	if c.Table.IDField == "" {
		return fmt.Errorf("table.id_field must not be empty")
	}
	if _, err := language.Parse(c.Table.Locale); err != nil {
		return fmt.Errorf("table.locale %q: %w", c.Table.Locale, err)
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	return nil
}

// LocaleTag returns the configured collation locale.
func (c TableConfig) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return table.DefaultLocale
	}
	return tag
}

// Options returns the table options for these defaults. Layout options
// appended after them take precedence.
func (c TableConfig) Options() []table.Option {
	return []table.Option{
		table.WithPageSize(c.PageSize),
		table.WithSearchable(c.Searchable),
		table.WithSelectable(c.Selectable),
		table.WithEmptyMessage(c.EmptyMessage),
		table.WithIDField(c.IDField),
		table.WithLocale(c.LocaleTag()),
	}
}
