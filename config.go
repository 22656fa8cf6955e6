package auth

import (
	"os"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

// DefaultTokenExpiration is the token lifetime in hours used by NewOptions
const DefaultTokenExpiration = 24

// MaxTokenExpiration is 100 years in hours, well below time.Duration overflow
const MaxTokenExpiration = 100 * 365 * 24

// Options is the default Config implementation. It can be populated from
// YAML, from AUTH_* environment variables, or by hand.
type Options struct {
	SigningKey        string `yaml:"signing_key" env:"AUTH_SIGNING_KEY"`
	TokenExpiration   int    `yaml:"token_expiration" env:"AUTH_TOKEN_EXPIRATION"`
	Issuer            string `yaml:"issuer" env:"AUTH_ISSUER"`
	RequireExpiration bool   `yaml:"require_expiration" env:"AUTH_REQUIRE_EXPIRATION"`
}

var _ Config = Options{}

// NewOptions returns options with defaults applied
func NewOptions(signingKey string) Options {
	return Options{
		SigningKey:      signingKey,
		TokenExpiration: DefaultTokenExpiration,
	}
}

func (o Options) GetSigningKey() string {
	return o.SigningKey
}

// GetTokenExpiration in hours, zero disables the exp claim
func (o Options) GetTokenExpiration() int {
	return o.TokenExpiration
}

func (o Options) GetIssuer() string {
	return o.Issuer
}

func (o Options) GetRequireExpiration() bool {
	return o.RequireExpiration
}

// Validate will run validation rules
func (o Options) Validate() error {
	if err := goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&o,
			validation.Field(&o.SigningKey, validation.Required),
			validation.Field(&o.TokenExpiration, validation.Min(0), validation.Max(MaxTokenExpiration)),
		)
	}, "invalid token authenticator config"); err != nil {
		return err.WithTextCode(TextCodeInvalidConfig)
	}

	if o.RequireExpiration && o.TokenExpiration == 0 {
		return goerrors.New("require_expiration needs a positive token_expiration", goerrors.CategoryValidation).
			WithTextCode(TextCodeInvalidConfig)
	}

	return nil
}

// LoadOptionsYAML decodes options from YAML, keeping defaults for keys that
// are not present.
func LoadOptionsYAML(data []byte) (Options, error) {
	opts := NewOptions("")
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to decode auth options").
			WithTextCode(TextCodeInvalidConfig)
	}
	return opts, nil
}

// LoadOptionsFile reads a YAML file and applies AUTH_* environment
// overrides on top of it.
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to read auth options file").
			WithTextCode(TextCodeInvalidConfig).
			WithMetadata(map[string]any{"path": path})
	}

	opts, err := LoadOptionsYAML(data)
	if err != nil {
		return Options{}, err
	}

	return applyEnv(opts)
}

// LoadOptionsFromEnv builds options from AUTH_* environment variables
func LoadOptionsFromEnv() (Options, error) {
	return applyEnv(NewOptions(""))
}

func applyEnv(opts Options) (Options, error) {
	if err := env.Parse(&opts); err != nil {
		return Options{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse auth environment").
			WithTextCode(TextCodeInvalidConfig)
	}
	return opts, nil
}

func validateConfig(cfg Config) error {
	if cfg == nil {
		return goerrors.New("config is required", goerrors.CategoryValidation).
			WithTextCode(TextCodeInvalidConfig)
	}

	if v, ok := cfg.(interface{ Validate() error }); ok {
		return v.Validate()
	}

	return Options{
		SigningKey:        cfg.GetSigningKey(),
		TokenExpiration:   cfg.GetTokenExpiration(),
		Issuer:            cfg.GetIssuer(),
		RequireExpiration: cfg.GetRequireExpiration(),
	}.Validate()
}
