package lconfig

import (
	"encoding/json"
	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	"os"
	"reflect"
	"strings"
)

// ConfigDirEnv names a directory whose files are read as extra environment
// variables (file name = variable name). Real environment variables win.
const ConfigDirEnv = "CONFIG_DIR"

var parseFuncs = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(resource.Quantity{}): env.ParserFunc(func(v string) (interface{}, error) {
		return resource.ParseQuantity(v)
	}),
	reflect.TypeOf(map[string]string{}): env.ParserFunc(func(v string) (interface{}, error) {
		ret := make(map[string]string)
		err := json.Unmarshal([]byte(v), &ret)
		return ret, err
	}),
}

func environment() (map[string]string, error) {
	configDirPath := os.Getenv(ConfigDirEnv)
	if configDirPath == "" {
		return nil, nil
	}
	configDir, err := NewConfigDir(configDirPath)
	if err != nil {
		return nil, err
	}
	environment, err := configDir.EnvironmentMap()
	if err != nil {
		return nil, err
	}
	for _, existingEnv := range os.Environ() {
		key, value, found := strings.Cut(existingEnv, "=")
		if !found {
			continue
		}
		environment[key] = value
	}
	return environment, nil
}

func Parse(v interface{}) error {
	return ParseWithFuncs(v, nil)
}

func MustParse(v interface{}) {
	if err := Parse(v); err != nil {
		panic(err)
	}
}

type ParseFuncs map[reflect.Type]env.ParserFunc

func ParseWithFuncs(v interface{}, funcs ParseFuncs) error {
	allFuncs := make(map[reflect.Type]env.ParserFunc)
	for k, fn := range parseFuncs {
		allFuncs[k] = fn
	}
	for k, fn := range funcs {
		allFuncs[k] = fn
	}

	opts := env.Options{}
	environment, err := environment()
	if err != nil {
		return errors.WithStack(err)
	}
	if environment != nil {
		opts.Environment = environment
	}
	return errors.WithStack(env.ParseWithFuncs(v, allFuncs, opts))
}
