package main

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"coursegen/internal/config"
)

func TestWriteConfigFromEnvJSON(t *testing.T) {
	t.Setenv("COURSE_CONFIG_YAML_B64", "")

	cfg := config.Default()
	cfg.Course.Name = "json-config"
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	t.Setenv("COURSE_CONFIG_JSON", string(data))

	path := filepath.Join(t.TempDir(), "config.json")
	wrote, err := writeConfigFromEnv(path)
	if err != nil {
		t.Fatalf("writeConfigFromEnv: %v", err)
	}
	if !wrote {
		t.Fatalf("expected config to be written")
	}

	decoded, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if decoded.Course.Name != "json-config" {
		t.Fatalf("unexpected course name: %q", decoded.Course.Name)
	}
}

func TestWriteConfigFromEnvYAMLKeepsDefaults(t *testing.T) {
	payload := map[string]any{
		"course":     map[string]any{"name": "yaml-config"},
		"generation": map[string]any{"seed": 77},
	}
	data, err := yaml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	t.Setenv("COURSE_CONFIG_JSON", "")
	t.Setenv("COURSE_CONFIG_YAML_B64", base64.StdEncoding.EncodeToString(data))

	path := filepath.Join(t.TempDir(), "nested", "config.json")
	wrote, err := writeConfigFromEnv(path)
	if err != nil {
		t.Fatalf("writeConfigFromEnv: %v", err)
	}
	if !wrote {
		t.Fatalf("expected config to be written")
	}

	decoded, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if decoded.Course.Name != "yaml-config" || decoded.Generation.Seed != 77 {
		t.Fatalf("payload fields lost: %+v / %+v", decoded.Course, decoded.Generation)
	}
	if decoded.Course.HoleLength != config.Default().Course.HoleLength {
		t.Fatalf("default hole length not preserved: %v", decoded.Course.HoleLength)
	}
}

func TestWriteConfigFromEnvRejectsInvalidPayload(t *testing.T) {
	t.Setenv("COURSE_CONFIG_YAML_B64", "")
	t.Setenv("COURSE_CONFIG_JSON", `{"course":{"holeLength":-1}}`)

	path := filepath.Join(t.TempDir(), "config.json")
	if _, err := writeConfigFromEnv(path); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("invalid config should not be written")
	}
}

func TestWriteConfigFromEnvRequiresPath(t *testing.T) {
	t.Setenv("COURSE_CONFIG_YAML_B64", "")
	t.Setenv("COURSE_CONFIG_JSON", `{}`)

	if _, err := writeConfigFromEnv(""); err == nil {
		t.Fatalf("expected error without a config path")
	}
}

func TestWriteConfigFromEnvNoPayload(t *testing.T) {
	t.Setenv("COURSE_CONFIG_JSON", "")
	t.Setenv("COURSE_CONFIG_YAML_B64", "")

	wrote, err := writeConfigFromEnv("/tmp/unused.json")
	if err != nil {
		t.Fatalf("writeConfigFromEnv: %v", err)
	}
	if wrote {
		t.Fatalf("expected no config to be written")
	}
}
