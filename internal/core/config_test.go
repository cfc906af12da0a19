package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigManager_LoadMissing(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Settings.RelevanceThreshold != 0 {
		t.Errorf("RelevanceThreshold = %v, want 0", cfg.Settings.RelevanceThreshold)
	}
	if !cfg.Settings.KeepBranchesOrDefault() {
		t.Error("KeepBranches should default to true")
	}
}

func TestConfigManager_SaveLoad(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())

	keep := false
	cfg := &Config{Settings: Settings{
		RegistryCommand:    []string{"my-registry", "list"},
		RelevanceThreshold: 0.5,
		KeepBranches:       &keep,
	}}

	if err := cm.Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Settings.RegistryCommand) != 2 {
		t.Errorf("RegistryCommand = %v", loaded.Settings.RegistryCommand)
	}
	if loaded.Settings.RelevanceThreshold != 0.5 {
		t.Errorf("RelevanceThreshold = %v", loaded.Settings.RelevanceThreshold)
	}
	if loaded.Settings.KeepBranchesOrDefault() {
		t.Error("KeepBranches = true, want false")
	}
}

func TestConfigManager_LoadWithComments(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigManagerWithDir(dir)

	content := `{
  // Minimum registry relevance kept during discovery.
  "settings": {
    "relevanceThreshold": 0.6,
    "keepBranches": true, // trailing comma allowed below
  },
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Settings.RelevanceThreshold != 0.6 {
		t.Errorf("RelevanceThreshold = %v, want 0.6", cfg.Settings.RelevanceThreshold)
	}
}

func TestConfigManager_LoadInvalid(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigManagerWithDir(dir)

	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("not json at all {{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cm.Load(); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestConfigManager_SaveAtomic(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())

	if err := cm.Save(&Config{}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(cm.ConfigPath() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not persist after save")
	}
}
