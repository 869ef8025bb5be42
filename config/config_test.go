package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOCAL_CONFIDENCE_THRESHOLD", "REPORT_CONFIDENCE_THRESHOLD", "SCAN_CONFIDENCE_THRESHOLD", "MAX_UPLOAD_BYTES", "VISION_PROVIDER"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Thresholds.Local != 15 || cfg.Thresholds.Report != 70 || cfg.Thresholds.Scan != 50 {
		t.Errorf("Thresholds = %+v", cfg.Thresholds)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.VisionProvider != "gemini" {
		t.Errorf("VisionProvider = %q", cfg.VisionProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LOCAL_CONFIDENCE_THRESHOLD", "22.5")
	t.Setenv("REMOTE_TIMEOUT", "15s")
	t.Setenv("MAX_SCANS_PER_USER", "3")
	t.Setenv("VISION_PROVIDER", "Stub")
	t.Setenv("DB_HOST", "mysql")

	cfg := Load()
	if cfg.Thresholds.Local != 22.5 {
		t.Errorf("Local threshold = %v", cfg.Thresholds.Local)
	}
	if cfg.RemoteTimeout != 15*time.Second {
		t.Errorf("RemoteTimeout = %v", cfg.RemoteTimeout)
	}
	if cfg.MaxScansPerUser != 3 {
		t.Errorf("MaxScansPerUser = %d", cfg.MaxScansPerUser)
	}
	if cfg.VisionProvider != "stub" {
		t.Errorf("VisionProvider = %q", cfg.VisionProvider)
	}
	if db := cfg.DB(); db.Host != "mysql" || db.PingMaxWait != 60*time.Second {
		t.Errorf("DB() = %+v", db)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SCAN_CONFIDENCE_THRESHOLD", "high")
	t.Setenv("LOCAL_MODEL_TIMEOUT", "soon")
	t.Setenv("MAX_UPLOAD_BYTES", "ten")

	cfg := Load()
	if cfg.Thresholds.Scan != 50 || cfg.LocalModelTimeout != 10*time.Second || cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("invalid values did not fall back: %+v", cfg)
	}
}
