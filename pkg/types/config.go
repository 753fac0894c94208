package types

import (
	"errors"
	"fmt"
)

// Default values applied by Config.WithDefaults.
const (
	DefaultName      = "World"
	DefaultGreeting  = "Hello"
	DefaultUppercase = false
)

// Limits carried over from the C library. A name must be strictly shorter
// than MaxNameLength bytes.
const (
	MaxNameLength   = 256
	ErrorBufferSize = 1024
)

// Name validation errors.
var (
	ErrNameEmpty   = errors.New("name cannot be empty")
	ErrNameTooLong = errors.New("name too long")
)

// Config holds the optional greeter parameters. A nil field selects the
// default; a non-nil field is used as given, so Name: Ptr("") is an
// explicit empty name and fails validation. A nil *Config selects every
// default.
type Config struct {
	Name      *string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Greeting  *string `json:"greeting,omitempty" yaml:"greeting,omitempty" mapstructure:"greeting"`
	Uppercase *bool   `json:"uppercase,omitempty" yaml:"uppercase,omitempty" mapstructure:"uppercase"`
}

// Settings is a Config with every default resolved.
type Settings struct {
	Name      string `json:"name" yaml:"name"`
	Greeting  string `json:"greeting" yaml:"greeting"`
	Uppercase bool   `json:"uppercase" yaml:"uppercase"`
}

// Ptr returns a pointer to v. It keeps Config literals short:
//
//	types.Config{Name: types.Ptr("Carbide User")}
func Ptr[T any](v T) *T {
	return &v
}

// WithDefaults merges the package defaults into c. It is safe to call on
// a nil *Config.
func (c *Config) WithDefaults() Settings {
	s := Settings{
		Name:      DefaultName,
		Greeting:  DefaultGreeting,
		Uppercase: DefaultUppercase,
	}
	if c == nil {
		return s
	}
	if c.Name != nil {
		s.Name = *c.Name
	}
	if c.Greeting != nil {
		s.Greeting = *c.Greeting
	}
	if c.Uppercase != nil {
		s.Uppercase = *c.Uppercase
	}
	return s
}

// Merge returns a copy of c where every field set in override replaces
// the corresponding field of c. Either side may be nil.
func (c *Config) Merge(override *Config) *Config {
	out := &Config{}
	if c != nil {
		*out = *c
	}
	if override == nil {
		return out
	}
	if override.Name != nil {
		out.Name = override.Name
	}
	if override.Greeting != nil {
		out.Greeting = override.Greeting
	}
	if override.Uppercase != nil {
		out.Uppercase = override.Uppercase
	}
	return out
}

// Validate checks the resolved settings. The returned error is or wraps
// one of the name sentinels.
func (s Settings) Validate() error {
	return ValidateName(s.Name)
}

// ValidateName applies the name rule shared by construction and rename.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if len(name) >= MaxNameLength {
		return fmt.Errorf("%w (%d chars, max %d)", ErrNameTooLong, len(name), MaxNameLength-1)
	}
	return nil
}
