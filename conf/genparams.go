package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/luminara-app/backend/genai"
)

// GetGenParamsFromFile loads generation parameters from a TOML file. An
// empty path falls back to GENAI_PARAMS_PATH and then genparams.toml in
// the working directory. A missing file yields the defaults; a present
// but broken file panics.
func GetGenParamsFromFile(path string) genai.GenParams {
	if path == "" {
		path = os.Getenv("GENAI_PARAMS_PATH")
	}
	if path == "" {
		path = "genparams.toml"
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return genai.DefaultGenParams()
	}
	if err != nil {
		panic(fmt.Sprintf("failed to read gen params file %s: %v", path, err))
	}

	params := genai.DefaultGenParams()
	if err := toml.Unmarshal(raw, &params); err != nil {
		panic(fmt.Sprintf("failed to parse gen params file %s: %v", path, err))
	}
	return params
}
