package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DottedLookup(t *testing.T) {
	cfg := New(map[string]any{
		"run": map[string]any{
			"step_timeout": "30s",
			"max_steps":    100,
		},
		"legacy":   map[any]any{"flag": true},
		"flat.key": "flat",
	})

	assert.Equal(t, 30*time.Second, cfg.Duration("run.step_timeout", 0))
	assert.Equal(t, 100, cfg.Int("run.max_steps", 0))
	assert.True(t, cfg.Bool("legacy.flag", false))
	assert.Equal(t, "flat", cfg.String("flat.key", ""))
	assert.True(t, cfg.Has("run"))
	assert.False(t, cfg.Has("run.missing"))
	assert.False(t, cfg.Has("run.max_steps.deeper"))
}

func TestConfig_String(t *testing.T) {
	cfg := New(map[string]any{"name": "checkout", "count": 3})

	assert.Equal(t, "checkout", cfg.String("name", "x"))
	assert.Equal(t, "x", cfg.String("count", "x"))
	assert.Equal(t, "x", cfg.String("missing", "x"))
}

func TestConfig_Duration(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  time.Duration
	}{
		{"string", "1m30s", 90 * time.Second},
		{"int seconds", 5, 5 * time.Second},
		{"int64 seconds", int64(2), 2 * time.Second},
		{"float seconds", 1.5, 1500 * time.Millisecond},
		{"duration", 3 * time.Millisecond, 3 * time.Millisecond},
		{"invalid string", "soon", time.Hour},
		{"wrong type", true, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New(map[string]any{"d": tt.value})
			assert.Equal(t, tt.want, cfg.Duration("d", time.Hour))
		})
	}
}

func TestConfig_Int(t *testing.T) {
	cfg := New(map[string]any{"i": 4, "i64": int64(5), "f": 6.0, "frac": 6.5, "s": "7"})

	assert.Equal(t, 4, cfg.Int("i", 0))
	assert.Equal(t, 5, cfg.Int("i64", 0))
	assert.Equal(t, 6, cfg.Int("f", 0))
	assert.Equal(t, -1, cfg.Int("frac", -1))
	assert.Equal(t, -1, cfg.Int("s", -1))
}

func TestConfig_Bool(t *testing.T) {
	cfg := New(map[string]any{"on": true, "str": "true"})

	assert.True(t, cfg.Bool("on", false))
	assert.False(t, cfg.Bool("str", false))
	assert.True(t, cfg.Bool("missing", true))
}

func TestConfig_StringSlice(t *testing.T) {
	cfg := New(map[string]any{
		"strings": []string{"a", "b"},
		"anys":    []any{"c", "d"},
		"mixed":   []any{"e", 1},
	})

	assert.Equal(t, []string{"a", "b"}, cfg.StringSlice("strings", nil))
	assert.Equal(t, []string{"c", "d"}, cfg.StringSlice("anys", nil))
	assert.Equal(t, []string{"z"}, cfg.StringSlice("mixed", []string{"z"}))
}

func TestConfig_Map(t *testing.T) {
	cfg := New(map[string]any{"archive": map[string]any{"path": "runs.db"}, "scalar": 1})

	assert.Equal(t, "runs.db", cfg.Map("archive").String("path", ""))
	assert.Empty(t, cfg.Map("scalar").Raw())
	assert.Empty(t, cfg.Map("missing").Raw())
}

func TestNew_Nil(t *testing.T) {
	cfg := New(nil)
	assert.NotNil(t, cfg.Raw())
	assert.False(t, cfg.Has("anything"))
}

func TestFromYAML(t *testing.T) {
	cfg, err := FromYAML([]byte(`
run:
  step_timeout: 2s
  max_steps: 50
observability:
  metrics: true
`))

	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Duration("run.step_timeout", 0))
	assert.Equal(t, 50, cfg.Int("run.max_steps", 0))
	assert.True(t, cfg.Bool("observability.metrics", false))

	_, err = FromYAML([]byte("run: [unclosed"))
	assert.ErrorContains(t, err, "parse yaml")
}

func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{"run": {"max_steps": 10, "step_timeout": 1.5}}`))

	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Int("run.max_steps", 0))
	assert.Equal(t, 1500*time.Millisecond, cfg.Duration("run.step_timeout", 0))

	_, err = FromJSON([]byte("{"))
	assert.ErrorContains(t, err, "parse json")
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("log:\n  level: debug\n"), 0o600))
	cfg, err := FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.String("log.level", ""))

	jsonPath := filepath.Join(dir, "c.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"log": {"format": "json"}}`), 0o600))
	cfg, err = FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.String("log.format", ""))

	tomlPath := filepath.Join(dir, "c.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(""), 0o600))
	_, err = FromFile(tomlPath)
	assert.ErrorContains(t, err, "unsupported config file extension")

	_, err = FromFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")
}
