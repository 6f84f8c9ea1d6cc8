package config

import "github.com/spf13/viper"

type Config struct {
	S3            *S3Config            `mapstructure:"s3" yaml:"s3,omitempty"`
	Recovery      *RecoveryConfig      `mapstructure:"recovery" yaml:"recovery,omitempty"`
	Notifications *NotificationsConfig `mapstructure:"notifications" yaml:"notifications,omitempty"`
}

type S3Config struct {
	Endpoint  string     `mapstructure:"endpoint" yaml:"endpoint"`
	Region    string     `mapstructure:"region" yaml:"region,omitempty"`
	AccessKey string     `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string     `mapstructure:"secret_key" yaml:"secret_key"`
	Bucket    string     `mapstructure:"bucket" yaml:"bucket"`
	PathStyle *bool      `mapstructure:"path_style" yaml:"path_style,omitempty"`
	TLS       *TLSConfig `mapstructure:"tls" yaml:"tls,omitempty"`
}

type TLSConfig struct {
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify,omitempty"`
}

type RecoveryConfig struct {
	MaxKeys        int32 `mapstructure:"max_keys" yaml:"max_keys,omitempty"`
	LockTTLMinutes int   `mapstructure:"lock_ttl_minutes" yaml:"lock_ttl_minutes,omitempty"`
}

type NotificationsConfig struct {
	Webhook *WebhookConfig `mapstructure:"webhook" yaml:"webhook,omitempty"`
}

type WebhookConfig struct {
	Enabled        bool     `mapstructure:"enabled" yaml:"enabled"`
	URL            string   `mapstructure:"url" yaml:"url"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
	Events         []string `mapstructure:"events" yaml:"events,omitempty"`
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// S3PathStyle defaults to path-style addressing, which MinIO and most
// self-hosted endpoints require.
func S3PathStyle(s *S3Config) bool {
	if s == nil || s.PathStyle == nil {
		return true
	}
	return *s.PathStyle
}
