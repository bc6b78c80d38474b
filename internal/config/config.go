// Package config loads the YAML source configuration: which default
// and computed fields to compute, and where to read/write/query.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultFields configures Layer-2 (walk-time) field computers. Each
// is an optional list of strings: extensions for the classifiers,
// ignore-pattern lines for is_ignored.
type DefaultFields struct {
	IsArchive  []string `yaml:"is_archive,omitempty"`
	IsDocument []string `yaml:"is_document,omitempty"`
	IsMedia    []string `yaml:"is_media,omitempty"`
	IsCode     []string `yaml:"is_code,omitempty"`
	IsIgnored  []string `yaml:"is_ignored,omitempty"`
}

// ComputedFields configures Layer-3 (enrichment-time) field computers.
type ComputedFields struct {
	BytesType bool `yaml:"bytes_type,omitempty"`
	IsBinary  bool `yaml:"is_binary,omitempty"`
	FileMagic bool `yaml:"file_magic,omitempty"`
	CRC32     bool `yaml:"crc32,omitempty"`
	SHA256    bool `yaml:"sha256,omitempty"`
	SHA512    bool `yaml:"sha512,omitempty"`
	MD5       bool `yaml:"md5,omitempty"`
	Simhash   bool `yaml:"simhash,omitempty"`

	CRC32Match   []string `yaml:"crc32_match,omitempty"`
	SHA256Match  []string `yaml:"sha256_match,omitempty"`
	SHA512Match  []string `yaml:"sha512_match,omitempty"`
	MD5Match     []string `yaml:"md5_match,omitempty"`
	SimhashMatch []string `yaml:"simhash_match,omitempty"`

	PathMatch    string `yaml:"path_match,omitempty"`
	ContentMatch string `yaml:"content_match,omitempty"`
	YaraMatch    string `yaml:"yara_match,omitempty"`

	// PathMatchRegexp/ContentMatchRegexp are compiled once at load
	// time, mirroring the original engine's serde_regex field
	// deserialization.
	PathMatchRegexp    *regexp.Regexp `yaml:"-"`
	ContentMatchRegexp *regexp.Regexp `yaml:"-"`
}

// Config is the full source configuration.
type Config struct {
	Root                     string         `yaml:"root,omitempty"`
	Query                    string         `yaml:"query,omitempty"`
	BeforeComputedFieldsQuery string        `yaml:"before_computed_fields_query,omitempty"`
	Unpack                   bool           `yaml:"unpack,omitempty"`
	DefaultFields            DefaultFields  `yaml:"default_fields,omitempty"`
	ComputedFields           ComputedFields `yaml:"computed_fields,omitempty"`
}

// DefaultQuery and DefaultBeforeComputedFieldsQuery mirror spec.md
// §4.8's defaults. They are applied by callers (internal/cli), not by
// Load, so a config file's query can be told apart from an unset one
// when reconciling against a --query flag (the config file's query
// wins over the flag; see internal/cli).
const (
	DefaultQuery                    = "select * from files"
	DefaultBeforeComputedFieldsQuery = "select * from files"
)

// Load reads and parses a YAML config file and compiles the
// regex-typed computed fields. Root defaults to "."; Query and
// BeforeComputedFieldsQuery are left as-is (possibly empty) so callers
// can apply the config-wins-over-flag precedence spec.md implies.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}

	if err := cfg.compileRegexFields(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) compileRegexFields() error {
	if c.ComputedFields.PathMatch != "" {
		re, err := regexp.Compile(c.ComputedFields.PathMatch)
		if err != nil {
			return fmt.Errorf("compile path_match: %w", err)
		}
		c.ComputedFields.PathMatchRegexp = re
	}
	if c.ComputedFields.ContentMatch != "" {
		re, err := regexp.Compile(c.ComputedFields.ContentMatch)
		if err != nil {
			return fmt.Errorf("compile content_match: %w", err)
		}
		c.ComputedFields.ContentMatchRegexp = re
	}
	return nil
}
