package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func TestDecodeDefaults(t *testing.T) {
	cfg, err := Decode(newTestViper())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Mailbox.LabelName != "processed-by-agent" {
		t.Fatalf("label default mismatch: %s", cfg.Mailbox.LabelName)
	}
	if cfg.Mailbox.MaxResults != 5 {
		t.Fatalf("max results default mismatch: %d", cfg.Mailbox.MaxResults)
	}
	if cfg.Extractor.Model != "gpt-3.5-turbo" {
		t.Fatalf("model default mismatch: %s", cfg.Extractor.Model)
	}
	if !cfg.Matcher.ActiveOnly {
		t.Fatalf("matcher should default to active only")
	}
	if !cfg.Order.PersistEmptyOrders {
		t.Fatalf("empty orders should be persisted by default")
	}
	if cfg.Mailbox.PollInterval() != 0 {
		t.Fatalf("scheduled polling should be off by default")
	}
	if cfg.Extractor.Timeout() != 30*time.Second {
		t.Fatalf("extractor timeout mismatch: %s", cfg.Extractor.Timeout())
	}
}

func TestDecodeEnvOverride(t *testing.T) {
	t.Setenv("MAILBOX_MAX_RESULTS", "12")
	t.Setenv("MATCHER_ACTIVE_ONLY", "false")
	t.Setenv("MAILBOX_POLL_INTERVAL_SECONDS", "90")

	cfg, err := Decode(newTestViper())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Mailbox.MaxResults != 12 {
		t.Fatalf("env max results not applied: %d", cfg.Mailbox.MaxResults)
	}
	if cfg.Matcher.ActiveOnly {
		t.Fatalf("env matcher flag not applied")
	}
	if cfg.Mailbox.PollInterval() != 90*time.Second {
		t.Fatalf("poll interval mismatch: %s", cfg.Mailbox.PollInterval())
	}
}

func TestDecodeBlankValuesFallBack(t *testing.T) {
	v := newTestViper()
	v.Set("mailbox.label_name", "  ")
	v.Set("mailbox.max_results", 0)
	v.Set("extractor.model", "")

	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Mailbox.LabelName != "processed-by-agent" || cfg.Mailbox.MaxResults != 5 || cfg.Extractor.Model != "gpt-3.5-turbo" {
		t.Fatalf("blank values should fall back, got %+v %+v", cfg.Mailbox, cfg.Extractor)
	}
}
