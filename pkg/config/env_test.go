package lconfig

import (
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"k8s.io/apimachinery/pkg/api/resource"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testStruct struct {
	StringVal    string            `env:"STRING_VAL"`
	DefaultValue string            `env:"NON_EXISTANT" envDefault:"Hello"`
	EnvVal       string            `env:"ENV_VAL"`
	IntVal       int               `env:"INT_VAL"`
	BoolVal      bool              `env:"BOOL_VAL"`
	F64Val       float64           `env:"FLOAT64_VAL"`
	F64Array     []float64         `env:"FLOAT64_ARRAY" envSeparator:" "`
	TimeDuration time.Duration     `env:"TIME_DURATION" envDefault:"5s"`
	Size         resource.Quantity `env:"SIZE_VAL" envDefault:"1Ki"`
	Labels       map[string]string `env:"LABELS_VAL"`
}

func TestConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ENV_VAL", "env value here")
	t.Setenv("INT_VAL", "456")
	t.Setenv(ConfigDirEnv, dir)

	files := map[string]string{
		"STRING_VAL":    "a string value",
		"INT_VAL":       "123",
		"BOOL_VAL":      "true\n",
		"FLOAT64_VAL":   "2.5",
		"FLOAT64_ARRAY": "0.0 0.1 0.2",
		"SIZE_VAL":      "2Mi",
		"LABELS_VAL":    `{"team":"lab"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	var test testStruct
	if err := Parse(&test); err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	assert.Equal(t, "a string value", test.StringVal)
	assert.Equal(t, "Hello", test.DefaultValue)
	assert.Equal(t, "env value here", test.EnvVal)
	// the real environment takes precedence over the directory
	assert.Equal(t, 456, test.IntVal)
	assert.Equal(t, true, test.BoolVal)
	assert.True(t, math.Abs(2.5-test.F64Val) < 0.001)
	assert.Equal(t, 3, len(test.F64Array))
	assert.Equal(t, time.Second*5, test.TimeDuration)
	assert.Equal(t, int64(2*1024*1024), test.Size.Value())
	assert.Equal(t, map[string]string{"team": "lab"}, test.Labels)
}

func TestParseWithoutConfigDir(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	t.Setenv("STRING_VAL", "from env")

	var test testStruct
	assert.Nil(t, Parse(&test))
	assert.Equal(t, "from env", test.StringVal)
	assert.Equal(t, int64(1024), test.Size.Value())
}

func TestConfigDirRejectsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fs, "/config", []byte("x"), 0600))

	_, err := NewConfigDirFs(fs, "/config")
	assert.NotNil(t, err)
}

func TestConfigDirSkipsBookkeeping(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fs, "/config/SQL_DB_NAME", []byte(" lab \n"), 0600))
	assert.Nil(t, afero.WriteFile(fs, "/config/..data", []byte("ignored"), 0600))

	dir, err := NewConfigDirFs(fs, "/config")
	assert.Nil(t, err)
	envMap, err := dir.EnvironmentMap()
	assert.Nil(t, err)
	assert.Equal(t, map[string]string{"SQL_DB_NAME": "lab"}, envMap)
}
