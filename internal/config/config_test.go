package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"database_url": "postgres://localhost/coach",
		"question_count": 7,
		"use_memory": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/coach", cfg.DatabaseURL)
	assert.Equal(t, 7, cfg.QuestionCount)
	assert.True(t, cfg.UseMemory)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("UPLOAD_DIR", "/tmp/up")
	t.Setenv("QUESTION_COUNT", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "/tmp/up", cfg.UploadDir)
	assert.Equal(t, 0, cfg.QuestionCount)
}

func TestValidate(t *testing.T) {
	notDir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"negative port", Config{Port: -1}, "port"},
		{"port too large", Config{Port: 70000}, "port"},
		{"too many questions", Config{QuestionCount: MaxQuestionCount + 1}, "question_count"},
		{"negative questions", Config{QuestionCount: -2}, "question_count"},
		{"upload dir is a file", Config{UploadDir: notDir}, "not a directory"},
		{"missing upload dir is created later", Config{UploadDir: filepath.Join(t.TempDir(), "new")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://flag/db",
	}
	defaults := Config{
		Port:          9000,
		DatabaseURL:   "postgres://file/db",
		APIKey:        "file-key",
		UploadDir:     "files",
		QuestionCount: 3,
		UseMemory:     true,
	}

	result := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, "postgres://flag/db", result.DatabaseURL, "explicit value wins")
	assert.Equal(t, 9000, result.Port)
	assert.Equal(t, "file-key", result.APIKey)
	assert.Equal(t, "files", result.UploadDir)
	assert.Equal(t, 3, result.QuestionCount)
	assert.True(t, result.UseMemory)

	// Original untouched
	assert.Equal(t, 0, cfg.Port)
}

func TestMergeWithDefaults_Layered(t *testing.T) {
	env := Config{QuestionCount: 4}
	file := Config{Port: 7000, QuestionCount: 9}

	merged := env.MergeWithDefaults(file)
	merged = merged.MergeWithDefaults(Defaults())

	assert.Equal(t, 7000, merged.Port)
	assert.Equal(t, 4, merged.QuestionCount)
	assert.Equal(t, "uploads", merged.UploadDir)
	assert.Equal(t, "/uploads", merged.UploadURLPrefix)
}
