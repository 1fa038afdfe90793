package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskcluster/idle-reclaimer/runtime"
	"github.com/taskcluster/idle-reclaimer/runtime/mocks"
)

type upperProvider struct{}

func (upperProvider) Transform(cfg map[string]interface{}, monitor runtime.Monitor) error {
	return ReplaceObjects(cfg, "test-level", func(val map[string]interface{}) (interface{}, error) {
		return val["$test-level"], nil
	})
}

type badTypeProvider struct{}

func (badTypeProvider) Transform(cfg map[string]interface{}, monitor runtime.Monitor) error {
	cfg["bad"] = 42
	return nil
}

func init() {
	Register("test-level", upperProvider{})
	Register("test-bad-type", badTypeProvider{})
}

const validConfig = `
config:
  monitor:
    type: mock
    panicOnError: false
  retention:
    provider: idle
    idleTimeout: 10
    checkInterval: 30
  scheduler:
    tickInterval: 5
    concurrency: 2
  fleet:
    initialSize: 3
    disconnectDelay: 250
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load([]byte(validConfig), mocks.NewMockMonitor(true))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Scheduler.TickInterval)
	assert.Equal(t, 2, cfg.Scheduler.Concurrency)
	assert.Equal(t, 3, cfg.Fleet.InitialSize)
	assert.Equal(t, 0, cfg.Fleet.ConnectDelay)
	assert.Equal(t, 250, cfg.Fleet.DisconnectDelay)
	assert.Equal(t, map[string]interface{}{
		"type":         "mock",
		"panicOnError": false,
	}, cfg.Monitor)
	assert.Equal(t, map[string]interface{}{
		"provider":      "idle",
		"idleTimeout":   float64(10),
		"checkInterval": float64(30),
	}, cfg.Retention)
}

func TestLoadFiltersUnknownKeys(t *testing.T) {
	cfg, err := Load([]byte(validConfig+"  someTransformOption: hello\n"), mocks.NewMockMonitor(true))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Fleet.InitialSize)
}

func TestLoadAppliesTransforms(t *testing.T) {
	data := `
transforms:
  - test-level
config:
  monitor:
    logLevel: {$test-level: debug}
  retention:
    provider: always
  scheduler:
    tickInterval: 1
    concurrency: 1
  fleet:
    initialSize: 0
`
	cfg, err := Load([]byte(data), mocks.NewMockMonitor(true))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"logLevel": "debug"}, cfg.Monitor)
	assert.Equal(t, map[string]interface{}{"provider": "always"}, cfg.Retention)
}

func TestLoadUnknownTransform(t *testing.T) {
	data := "transforms:\n  - no-such-transform\n" + validConfig
	_, err := Load([]byte(data), mocks.NewMockMonitor(true))
	require.Error(t, err)
}

func TestLoadTransformInjectingWrongTypes(t *testing.T) {
	data := "transforms:\n  - test-bad-type\n" + validConfig
	assert.Panics(t, func() {
		Load([]byte(data), mocks.NewMockMonitor(true))
	})
}

func TestLoadInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"not yaml":       "config: [",
		"not an object":  "- 1\n- 2\n",
		"missing config": "transforms: []\n",
		"config not obj": "config: 42\n",
		"unknown provider": `
config:
  monitor: {type: mock, panicOnError: false}
  retention: {provider: sometimes}
  scheduler: {tickInterval: 1, concurrency: 1}
  fleet: {initialSize: 0}
`,
		"negative idleTimeout": `
config:
  monitor: {type: mock, panicOnError: false}
  retention: {provider: idle, idleTimeout: -1}
  scheduler: {tickInterval: 1, concurrency: 1}
  fleet: {initialSize: 0}
`,
		"initialSize out of range": `
config:
  monitor: {type: mock, panicOnError: false}
  retention: {provider: idle, idleTimeout: 1}
  scheduler: {tickInterval: 1, concurrency: 1}
  fleet: {initialSize: 10000000000000000000}
`,
		"binary value": `
config:
  monitor: {type: mock, panicOnError: false}
  retention: {provider: idle, idleTimeout: 1}
  scheduler: {tickInterval: 1, concurrency: 1}
  fleet: {initialSize: !!binary aGVsbG8=}
`,
		"missing scheduler": `
config:
  monitor: {type: mock, panicOnError: false}
  retention: {provider: idle, idleTimeout: 1}
  fleet: {initialSize: 0}
`,
	}
	for name, data := range cases {
		data := data
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := Load([]byte(data), mocks.NewMockMonitor(true))
				assert.Error(t, err)
			})
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "idle-reclaimer-config-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "config.yml")
	require.NoError(t, ioutil.WriteFile(filename, []byte(validConfig), 0600))

	cfg, err := LoadFromFile(filename, mocks.NewMockMonitor(true))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Scheduler.Concurrency)

	_, err = LoadFromFile(filepath.Join(dir, "missing.yml"), mocks.NewMockMonitor(true))
	assert.Error(t, err)
}

func TestSchemaListsTransforms(t *testing.T) {
	s := Schema()
	require.Contains(t, s.Properties, "config")
	require.Contains(t, s.Properties, "transforms")
}

func TestSchemaTitles(t *testing.T) {
	s := ConfigSchema().Schema()
	assert.Equal(t, "Reclaimer Config", s["title"])
	props := s["properties"].(map[string]map[string]interface{})
	assert.Equal(t, "In-Memory Fleet", props["fleet"]["title"])
	assert.Equal(t, "Scheduler", props["scheduler"]["title"])
	assert.Equal(t, "Configuration Transformations", Schema().Properties["transforms"].Schema()["title"])
}

func TestReplaceObjects(t *testing.T) {
	cfg := map[string]interface{}{
		"a": map[string]interface{}{"$x": "1"},
		"b": []interface{}{map[string]interface{}{"$x": "2"}},
		"c": map[string]interface{}{"$x": "3", "other": true},
	}
	err := ReplaceObjects(cfg, "x", func(val map[string]interface{}) (interface{}, error) {
		return "replaced-" + val["$x"].(string), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "replaced-1", cfg["a"])
	assert.Equal(t, []interface{}{"replaced-2"}, cfg["b"])
	assert.Equal(t, map[string]interface{}{"$x": "3", "other": true}, cfg["c"])
}

func TestConvertSimpleJSONTypes(t *testing.T) {
	assert.Equal(t, map[string]interface{}{
		"int":    float64(1),
		"int64":  float64(2),
		"uint64": float64(10000000000000000000),
		"list":   []interface{}{float64(3), "s"},
	}, convertSimpleJSONTypes(map[interface{}]interface{}{
		"int":    1,
		"int64":  int64(2),
		"uint64": uint64(10000000000000000000),
		"list":   []interface{}{3, "s"},
	}))
	assert.Error(t, jsonCompatTypes(map[string]interface{}{"bytes": []byte("x")}))
}
