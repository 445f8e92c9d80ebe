package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL   = "http://129.151.188.8:8085"
	DefaultPath      = "/api/orders/createOrder"
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "orderprobe/1.0"

	TransportHTTP = "http"
	TransportRaw  = "raw"

	FormatText = "text"
	FormatJSON = "json"
)

// Viper keys. The env-backed ones are bound in Load.
const (
	KeyBaseURL   = "base_url"
	KeyAPIToken  = "api_token"
	KeyPath      = "path"
	KeyTimeout   = "timeout"
	KeyTransport = "transport"
	KeyProxy     = "proxy"
	KeyInsecure  = "insecure"
	KeyUserAgent = "user_agent"
	KeyVariants  = "variant"
	KeyDryRun    = "dry_run"
	KeyFormat    = "format"
	KeyShowToken = "show_token"
	KeyVerbosity = "verbosity"
	KeyNoColor   = "no_color"
	KeySilent    = "silent"
)

// Config holds everything a probe run needs. It is built once at startup and
// handed to the runner; nothing reads the environment after Load returns.
type Config struct {
	BaseURL            string        `validate:"required,url"`
	APIToken           string        // Empty means no Authorization header
	Path               string        `validate:"required,startswith=/"`
	RequestTimeout     time.Duration `validate:"gt=0"`
	Transport          string        `validate:"oneof=http raw"`
	ProxyInput         string        // Raw proxy spec, parsed by utils.ParseProxyInput
	InsecureSkipVerify bool
	UserAgent          string   `validate:"required"`
	Variants           []string // Subset of variant names to run; empty runs all
	DryRun             bool
	OutputFormat       string `validate:"oneof=text json"`
	ShowToken          bool
	Verbosity          string `validate:"oneof=debug info warn warning error fatal"`
	NoColor            bool
	Silent             bool
}

// GetDefaultConfig returns a Config struct populated with default values.
func GetDefaultConfig() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		APIToken:       "",
		Path:           DefaultPath,
		RequestTimeout: DefaultTimeout,
		Transport:      TransportHTTP,
		UserAgent:      DefaultUserAgent,
		Variants:       []string{},
		OutputFormat:   FormatText,
		Verbosity:      "info",
	}
}

// SetDefaults registers the defaults of GetDefaultConfig on v and binds the
// BASE_URL and API_TOKEN environment variables.
func SetDefaults(v *viper.Viper) error {
	d := GetDefaultConfig()

	v.SetDefault(KeyBaseURL, d.BaseURL)
	v.SetDefault(KeyAPIToken, d.APIToken)
	v.SetDefault(KeyPath, d.Path)
	v.SetDefault(KeyTimeout, d.RequestTimeout)
	v.SetDefault(KeyTransport, d.Transport)
	v.SetDefault(KeyProxy, d.ProxyInput)
	v.SetDefault(KeyInsecure, d.InsecureSkipVerify)
	v.SetDefault(KeyUserAgent, d.UserAgent)
	v.SetDefault(KeyVariants, d.Variants)
	v.SetDefault(KeyDryRun, d.DryRun)
	v.SetDefault(KeyFormat, d.OutputFormat)
	v.SetDefault(KeyShowToken, d.ShowToken)
	v.SetDefault(KeyVerbosity, d.Verbosity)
	v.SetDefault(KeyNoColor, d.NoColor)
	v.SetDefault(KeySilent, d.Silent)

	if err := v.BindEnv(KeyBaseURL, "BASE_URL"); err != nil {
		return fmt.Errorf("failed to bind BASE_URL: %w", err)
	}
	if err := v.BindEnv(KeyAPIToken, "API_TOKEN"); err != nil {
		return fmt.Errorf("failed to bind API_TOKEN: %w", err)
	}
	return nil
}

// Load reads the configuration out of v. Precedence is viper's own:
// explicitly set flags, then environment, then defaults.
func Load(v *viper.Viper) *Config {
	return &Config{
		BaseURL:            strings.TrimSpace(v.GetString(KeyBaseURL)),
		APIToken:           strings.TrimSpace(v.GetString(KeyAPIToken)),
		Path:               v.GetString(KeyPath),
		RequestTimeout:     v.GetDuration(KeyTimeout),
		Transport:          strings.ToLower(v.GetString(KeyTransport)),
		ProxyInput:         v.GetString(KeyProxy),
		InsecureSkipVerify: v.GetBool(KeyInsecure),
		UserAgent:          v.GetString(KeyUserAgent),
		Variants:           v.GetStringSlice(KeyVariants),
		DryRun:             v.GetBool(KeyDryRun),
		OutputFormat:       strings.ToLower(v.GetString(KeyFormat)),
		ShowToken:          v.GetBool(KeyShowToken),
		Verbosity:          strings.ToLower(v.GetString(KeyVerbosity)),
		NoColor:            v.GetBool(KeyNoColor),
		Silent:             v.GetBool(KeySilent),
	}
}

// Validate checks the struct tags and the cross-field rules, reporting every
// problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validatorv10.New().Struct(c); err != nil {
		var ve validatorv10.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				result = multierror.Append(result, fmt.Errorf("%s: failed '%s' check (value %q)", fe.Field(), fe.Tag(), fmt.Sprint(fe.Value())))
			}
		} else {
			result = multierror.Append(result, err)
		}
	}

	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err == nil && u.Scheme != "http" && u.Scheme != "https" {
			result = multierror.Append(result, fmt.Errorf("BaseURL: scheme must be http or https, got %q", u.Scheme))
		}
	}
	if c.Transport == TransportRaw && c.ProxyInput != "" {
		result = multierror.Append(result, fmt.Errorf("ProxyInput: the raw transport does not support proxies"))
	}

	return result.ErrorOrNil()
}

// MaskedToken returns the API token with all but its last four characters hidden.
func (c *Config) MaskedToken() string {
	if len(c.APIToken) <= 4 {
		return strings.Repeat("*", len(c.APIToken))
	}
	return strings.Repeat("*", len(c.APIToken)-4) + c.APIToken[len(c.APIToken)-4:]
}

func (c *Config) String() string {
	return fmt.Sprintf("BaseURL: %s, Path: %s, Token: '%s', Timeout: %s, Transport: %s, Proxy: '%s', Insecure: %t, Variants: %v, DryRun: %t, Format: %s, Verbosity: %s",
		c.BaseURL, c.Path, c.MaskedToken(), c.RequestTimeout.String(), c.Transport, c.ProxyInput, c.InsecureSkipVerify, c.Variants, c.DryRun, c.OutputFormat, c.Verbosity)
}
