package cli

// This file contains the layered input source of the check command:
// explicit flags first, then INPUT_* environment variables and the
// optional YAML config file.

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"github.com/aasgate/aasgate/cli/engine"
	"github.com/aasgate/aasgate/inputs"
)

// configName is looked up in the working directory when no --config is given.
const configName = ".aasgate"

// flagForInput maps input names to check command flags.
var flagForInput = map[string]string{
	inputs.KeyMode:            engine.FlagMode,
	inputs.KeyFiles:           engine.FlagFiles,
	inputs.KeyFormat:          engine.FlagFormat,
	inputs.KeyModelType:       engine.FlagModelType,
	inputs.KeyServerURL:       engine.FlagServerURL,
	inputs.KeyAPIProfile:      engine.FlagAPIProfile,
	inputs.KeyFilter:          engine.FlagFilter,
	inputs.KeyHeaders:         engine.FlagHeader,
	inputs.KeyReportFormats:   engine.FlagReportFormats,
	inputs.KeyOutputDir:       engine.FlagOutputDir,
	inputs.KeyPipPackage:      engine.FlagPipPackage,
	inputs.KeyPipVersion:      engine.FlagPipVersion,
	inputs.KeyPythonCmd:       engine.FlagPythonCmd,
	inputs.KeyContinueOnError: engine.FlagContinueOnError,
}

type inputSource struct {
	ctx *cli.Context
	v   *viper.Viper
}

func newInputSource(ctx *cli.Context, configPath string) (*inputSource, error) {
	v := viper.New()
	v.SetEnvPrefix("INPUT")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	return &inputSource{ctx: ctx, v: v}, nil
}

// GetInput returns the raw value of an input. List values are joined the
// way the input parser splits them.
func (s *inputSource) GetInput(name string) string {
	sep := "\n"
	if name == inputs.KeyReportFormats {
		sep = ","
	}

	if flag, ok := flagForInput[name]; ok && s.ctx.IsSet(flag) {
		switch name {
		case inputs.KeyFiles, inputs.KeyHeaders:
			return strings.Join(s.ctx.StringSlice(flag), sep)
		case inputs.KeyContinueOnError:
			return strconv.FormatBool(s.ctx.Bool(flag))
		default:
			return s.ctx.String(flag)
		}
	}

	switch s.v.Get(name).(type) {
	case nil:
		return ""
	case []any:
		return strings.Join(s.v.GetStringSlice(name), sep)
	default:
		return s.v.GetString(name)
	}
}
