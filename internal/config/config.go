// Package config defines the tuning knobs of a parallel sort and loads them
// from YAML or CUE files.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/poolsort/internal/kernel"
)

//go:embed schema.cue
var schemaCUE string

// Defaults.
const (
	DefaultThreads       = 4
	DefaultCutoff        = kernel.DefaultCutoff
	DefaultQueueCapacity = 1 << 16
)

// Config holds the parameters of one sort invocation.
type Config struct {
	// Threads is the number of worker goroutines.
	Threads int `json:"threads" yaml:"threads"`

	// Cutoff is the range length at or below which insertion sort is used.
	Cutoff int `json:"cutoff" yaml:"cutoff"`

	// QueueCapacity bounds the number of outstanding messages. It is
	// independent of the array length.
	QueueCapacity int `json:"queue_capacity" yaml:"queue_capacity"`

	// Verify runs the ordering scan after the pool has joined.
	Verify bool `json:"verify" yaml:"verify"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Threads:       DefaultThreads,
		Cutoff:        DefaultCutoff,
		QueueCapacity: DefaultQueueCapacity,
		Verify:        true,
	}
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Threads < 1 {
		errs = append(errs, fmt.Errorf("threads must be >= 1, got %d", c.Threads))
	}
	if c.Cutoff < 1 {
		errs = append(errs, fmt.Errorf("cutoff must be >= 1, got %d", c.Cutoff))
	}
	if c.QueueCapacity < 1 {
		errs = append(errs, fmt.Errorf("queue_capacity must be >= 1, got %d", c.QueueCapacity))
	}
	return errors.Join(errs...)
}

// Load reads a configuration file. Fields missing from the file keep their
// defaults. The format is chosen by extension: .yaml/.yml or .cue.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	case ".cue":
		cfg, err = ParseCUE(data, path)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q: use .yaml, .yml or .cue", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseYAML decodes YAML onto the defaults. Unknown keys are rejected.
func ParseYAML(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseCUE unifies the source with the embedded #Config schema and decodes
// the result onto the defaults. filename is used in error positions.
func ParseCUE(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Config{}, fmt.Errorf("compile cue: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, fmt.Errorf("validate cue: %w", err)
	}

	cfg := Default()
	if err := unified.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode cue: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
