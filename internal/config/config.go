// Package config holds the rendering configuration: indent width and
// format mode. Configuration files are YAML or CUE and are validated
// against an embedded CUE schema.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Format selects how clauses are joined.
type Format string

const (
	// FormatIndent puts each clause keyword on its own line with the body
	// indented one level below it.
	FormatIndent Format = "indent"

	// FormatFlat joins keywords and bodies with single spaces.
	FormatFlat Format = "flat"
)

// Config is the rendering configuration.
type Config struct {
	IndentSize int    `json:"indent_size" yaml:"indent_size"`
	Format     Format `json:"format" yaml:"format"`
}

// Default returns the configuration used when nothing is loaded.
func Default() Config {
	return Config{IndentSize: 2, Format: FormatIndent}
}

// Flat reports whether output is single-line.
func (c Config) Flat() bool {
	return c.Format == FormatFlat
}

// Validate checks c against the schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	return decode(ctx, ctx.Encode(c), &Config{})
}

// Error is a configuration failure with an optional source position.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// Load reads a configuration file. The extension picks the decoder:
// .yaml/.yml or .cue.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(filepath.Base(path), data)
}

// Parse decodes configuration source. name is used for its extension and
// in error positions.
func Parse(name string, data []byte) (Config, error) {
	ctx := cuecontext.New()

	var v cue.Value
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		raw := map[string]any{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, &Error{Message: fmt.Sprintf("%s: %v", name, err)}
		}
		v = ctx.Encode(raw)
	case ".cue":
		v = ctx.CompileBytes(data, cue.Filename(name))
	default:
		return Config{}, &Error{Message: fmt.Sprintf("%s: unsupported config format (want .yaml, .yml or .cue)", name)}
	}
	if err := v.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	var cfg Config
	if err := decode(ctx, v, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode unifies v with #Config and decodes the concrete result into out.
func decode(ctx *cue.Context, v cue.Value, out *Config) error {
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	if err := unified.Decode(out); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error()}
	}

	first := errs[0]
	cfgErr := &Error{Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		cfgErr.Pos = positions[0]
	}
	return cfgErr
}
