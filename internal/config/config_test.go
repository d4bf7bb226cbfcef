package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Artifact.MinBytes != 10_000 {
		t.Errorf("expected min_bytes 10000, got %d", cfg.Artifact.MinBytes)
	}
	if cfg.Sources.FetchTimeout != 60*time.Second {
		t.Errorf("expected fetch_timeout 60s, got %s", cfg.Sources.FetchTimeout)
	}
	if len(cfg.Readability.Bands) != 6 {
		t.Errorf("expected 6 default bands, got %d", len(cfg.Readability.Bands))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("non-increasing bands", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Readability.Bands = []BandCfg{{Label: "low", MaxGrade: 5}, {Label: "mid", MaxGrade: 5}, {Label: "high"}}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for equal band ceilings")
		}
	})

	t.Run("empty bands", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Readability.Bands = nil
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty bands")
		}
	})

	t.Run("zero fetch timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Sources.FetchTimeout = 0
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for zero fetch timeout")
		}
	})
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_LIBRARY_ROOT", "/srv/books")

		result := ResolveEnvVars("${TEST_LIBRARY_ROOT}/classics")
		if result != "/srv/books/classics" {
			t.Errorf("expected /srv/books/classics, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")

		configContent := `
sources:
  fetch_timeout: 90s
  keep_artifacts: false
readability:
  min_words: 25
`
		if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Sources.FetchTimeout != 90*time.Second {
			t.Errorf("expected 90s, got %s", cfg.Sources.FetchTimeout)
		}
		if cfg.Sources.KeepArtifacts {
			t.Error("expected keep_artifacts false")
		}
		if cfg.Readability.MinWords != 25 {
			t.Errorf("expected min_words 25, got %d", cfg.Readability.MinWords)
		}
		// Keys absent from the file keep their defaults
		if cfg.Sources.UserAgent != DefaultConfig().Sources.UserAgent {
			t.Errorf("expected default user agent, got %q", cfg.Sources.UserAgent)
		}
		if cfg.Artifact.MinBytes != 10_000 {
			t.Errorf("expected default min_bytes, got %d", cfg.Artifact.MinBytes)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configFile, []byte("artifact:\n  min_bytes: 5000\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("GUTENSHELF_ARTIFACT_MIN_BYTES", "2048")

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get().Artifact.MinBytes; got != 2048 {
			t.Errorf("expected 2048 from env, got %d", got)
		}
	})

	t.Run("rejects invalid bands", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")
		content := `
readability:
  bands:
    - {label: low, max_grade: 8}
    - {label: mid, max_grade: 4}
    - {label: high}
`
		if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewManager(configFile); err == nil {
			t.Error("expected error for decreasing bands")
		}
	})
}

func TestWriteDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# gutenshelf configuration") {
		t.Error("expected header comment")
	}
	if !strings.Contains(string(data), "fetch_timeout: 1m0s") {
		t.Errorf("expected duration rendered as string, got:\n%s", data)
	}

	// The written file must load back into the defaults
	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	cfg := mgr.Get()
	def := DefaultConfig()
	if cfg.Sources.FetchTimeout != def.Sources.FetchTimeout {
		t.Errorf("fetch_timeout = %s, want %s", cfg.Sources.FetchTimeout, def.Sources.FetchTimeout)
	}
	if len(cfg.Readability.Bands) != len(def.Readability.Bands) {
		t.Fatalf("bands = %d, want %d", len(cfg.Readability.Bands), len(def.Readability.Bands))
	}
	if cfg.Readability.Bands[4].Label != "C1" || cfg.Readability.Bands[4].MaxGrade != 13 {
		t.Errorf("unexpected band: %+v", cfg.Readability.Bands[4])
	}
}

func TestManager_Lookup(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("verify:\n  min_shared_words: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("existing key", func(t *testing.T) {
		entry, err := mgr.Lookup("verify.min_shared_words")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if entry.Value != 3 {
			t.Errorf("Value = %v, want 3", entry.Value)
		}
		if entry.Description == "" {
			t.Error("expected description")
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := mgr.Lookup("does.not.exist")
		if !errors.Is(err, ErrNoDefault) {
			t.Errorf("expected ErrNoDefault, got %v", err)
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := mgr.Lookup("bad key!")
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("expected ErrInvalidKey, got %v", err)
		}
	})
}

func TestManager_OnChange(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configFile, []byte("log_level: info\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	if len(mgr.callbacks) != 2 {
		t.Errorf("expected 2 callbacks, got %d", len(mgr.callbacks))
	}
}
