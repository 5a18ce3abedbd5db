package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/go-ozzo/ozzo-validation/v4/is"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mitchellh/mapstructure"

	"github.com/spf13/viper"
)

const (
	defaultExtension = "yaml"
	defaultTagName   = "yaml"
)

type Binder interface {
	Bind(v *viper.Viper) error
}

type Loader interface {
	Load(name, path, envPrefix string, binder Binder) (Config, error)
}

type Config struct {
	Oauth    Oauth    `yaml:"oauth"`
	Exchange Exchange `yaml:"exchange"`
	Security Security `yaml:"security"`
	Server   Server   `yaml:"server"`
	Cors     Cors     `yaml:"cors"`

	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Oauth, validation.Required),
		validation.Field(&c.Exchange, validation.Required),
		validation.Field(&c.Security, validation.Required),
		validation.Field(&c.Server, validation.Required),
		validation.Field(&c.Cors, validation.Required),
		validation.Field(&c.LogLevel, validation.Required),
	)
}

// Oauth holds the Azure AD application used for acquiring Exchange and
// Graph access tokens with the client credentials flow.
type Oauth struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	TenantID     string `yaml:"tenant_id"`
}

func (o Oauth) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.ClientID, validation.Required),
		validation.Field(&o.ClientSecret, validation.Required),
		validation.Field(&o.TenantID, validation.Required),
	)
}

type Exchange struct {
	// Server is the EWS endpoint host used for rich message retrieval.
	Server string `yaml:"server"`
	// GraphURL is the Microsoft Graph base URL, overridable for tests.
	GraphURL string `yaml:"graph_url"`
}

func (e Exchange) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Server, validation.Required, is.URL),
		validation.Field(&e.GraphURL, validation.Required, is.URL),
	)
}

// Security configures the internal session tokens issued to API callers.
type Security struct {
	SigningKey      string `yaml:"signing_key"`
	TokenExpiryMins int    `yaml:"token_expiry_mins"`
	Algorithm       string `yaml:"algorithm"`
}

func (s Security) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.SigningKey, validation.Required),
		validation.Field(&s.TokenExpiryMins, validation.Required),
		validation.Field(&s.Algorithm, validation.Required, validation.In("HS256", "HS384", "HS512")),
	)
}

type Cors struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func (c Cors) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.AllowedOrigins, validation.Required),
	)
}

type Server struct {
	Hostname string `yaml:"hostname"`
	Address  string `yaml:"address"`
	Port     string `yaml:"port"`
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Address, validation.Required, is.IP),
		validation.Field(&s.Hostname, validation.Required, is.Host),
		validation.Field(&s.Port, validation.Required, is.Port),
	)
}

func (s Server) ListenAddr() string {
	return net.JoinHostPort(s.Address, s.Port)
}

type FileParts struct {
	FileName string
	Path     string
}

func ProcessConfigPath(configFile string) (FileParts, error) {
	absolutePath, err := filepath.Abs(configFile)
	if err != nil {
		return FileParts{}, fmt.Errorf("convert to absolute path: %w", err)
	}

	// Extract file name and extension
	fileName := filepath.Base(absolutePath)
	path := filepath.Dir(absolutePath)
	extension := filepath.Ext(fileName)

	if strings.ReplaceAll(strings.ToLower(extension), ".", "") != defaultExtension {
		return FileParts{}, fmt.Errorf("config file must have extension %s, got: %s", defaultExtension, extension)
	}

	return FileParts{
		FileName: fileName[:len(fileName)-len(extension)],
		Path:     path,
	}, nil
}

func NewFileSystemLoader() *FileSystemLoader {
	return &FileSystemLoader{}
}

type FileSystemLoader struct{}

func (fs *FileSystemLoader) Load(name, path, envPrefix string, b Binder) (Config, error) {
	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName(name)
	v.SetConfigType(defaultExtension)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // So that env vars are translated properly
	v.AutomaticEnv()

	if b != nil {
		err := b.Bind(v)
		if err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(envPrefix)

	err := v.ReadInConfig()
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var config Config

	err = v.Unmarshal(&config, func(cfg *mapstructure.DecoderConfig) {
		cfg.TagName = defaultTagName // We use yaml tags in the config structs so we can marshal to yaml
	})
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return config, nil
}

type EnvBinder struct {
	binders map[string]string
}

func (e *EnvBinder) Bind(v *viper.Viper) error {
	for envVar, key := range e.binders {
		err := v.BindEnv(key, envVar)
		if err != nil {
			return fmt.Errorf("bind env var %s to key %s: %w", envVar, key, err)
		}
	}

	return nil
}

func NewEnvBinder(binders map[string]string) *EnvBinder {
	return &EnvBinder{
		binders: binders,
	}
}

func NewDefaultEnvBinder() *EnvBinder {
	return NewEnvBinder(map[string]string{
		"AZURE_APP_CLIENT_ID":     "oauth.client_id",
		"AZURE_APP_CLIENT_SECRET": "oauth.client_secret",
		"AZURE_APP_TENANT_ID":     "oauth.tenant_id",
		"EXCHANGE_SERVER":         "exchange.server",
		"SESSION_SIGNING_KEY":     "security.signing_key",
	})
}
