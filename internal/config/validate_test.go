package config

import (
	"errors"
	"testing"
)

func TestValidate_Nil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("nil config should fail validation")
	}
}

func TestValidate_EmptyIsOK(t *testing.T) {
	if err := Validate(&Config{}); err != nil {
		t.Errorf("empty config should validate (flags can supply s3): %v", err)
	}
}

func TestValidate_S3Incomplete(t *testing.T) {
	err := Validate(&Config{S3: &S3Config{Bucket: "b"}})
	if !errors.Is(err, ErrS3Incomplete) {
		t.Errorf("missing endpoint: err = %v, want ErrS3Incomplete", err)
	}
	err = Validate(&Config{S3: &S3Config{Endpoint: "http://minio:9000"}})
	if !errors.Is(err, ErrS3Incomplete) {
		t.Errorf("missing bucket: err = %v, want ErrS3Incomplete", err)
	}
}

func TestValidate_S3Complete(t *testing.T) {
	err := Validate(&Config{S3: &S3Config{Endpoint: "http://minio:9000", Bucket: "b"}})
	if err != nil {
		t.Errorf("complete s3 should validate: %v", err)
	}
}

func TestValidate_RecoveryBounds(t *testing.T) {
	if err := Validate(&Config{Recovery: &RecoveryConfig{MaxKeys: 1001}}); err == nil {
		t.Error("max_keys over 1000 should fail")
	}
	if err := Validate(&Config{Recovery: &RecoveryConfig{MaxKeys: -1}}); err == nil {
		t.Error("negative max_keys should fail")
	}
	if err := Validate(&Config{Recovery: &RecoveryConfig{LockTTLMinutes: -5}}); err == nil {
		t.Error("negative lock TTL should fail")
	}
	if err := Validate(&Config{Recovery: &RecoveryConfig{MaxKeys: 999, LockTTLMinutes: 30}}); err != nil {
		t.Errorf("sane recovery settings should validate: %v", err)
	}
}

func TestValidate_Webhook(t *testing.T) {
	cfg := &Config{Notifications: &NotificationsConfig{Webhook: &WebhookConfig{Enabled: true}}}
	if err := Validate(cfg); err == nil {
		t.Error("enabled webhook without url should fail")
	}
	cfg.Notifications.Webhook.URL = "https://hooks.example.com/x"
	if err := Validate(cfg); err != nil {
		t.Errorf("webhook with url should validate: %v", err)
	}
}
