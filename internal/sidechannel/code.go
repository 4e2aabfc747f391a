package sidechannel

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vpnforge/vpnforge/internal/assets"
)

// Supported stop-function runtimes.
const (
	RuntimePython = "python3.12"
	RuntimeCustom = "provided.al2023"
)

// Handlers per runtime.
const (
	PythonHandler = "lambda_function.lambda_handler"
	CustomHandler = "bootstrap"
)

// InstanceIDEnv is the environment variable carrying the bound instance id.
const InstanceIDEnv = "INSTANCE_ID"

// CodeOptions selects and parameterises the stop-function package.
type CodeOptions struct {
	Runtime    string
	Region     string
	InstanceID string
	// BootstrapPath is the compiled stop-function binary used by custom runtimes.
	BootstrapPath string
}

// Code is a deployable function package.
type Code struct {
	Runtime     string
	Handler     string
	Zip         []byte
	Environment map[string]string
}

// BuildCode packages the stop function with the instance id bound in.
func BuildCode(opts CodeOptions) (*Code, error) {
	if opts.InstanceID == "" {
		return nil, fmt.Errorf("instance id is required")
	}
	env := map[string]string{InstanceIDEnv: opts.InstanceID}

	switch {
	case opts.Runtime == RuntimePython:
		source, err := render(assets.StopFunctionPythonTemplate, opts)
		if err != nil {
			return nil, err
		}
		data, err := zipFile("lambda_function.py", []byte(source), 0o644)
		if err != nil {
			return nil, err
		}
		return &Code{Runtime: opts.Runtime, Handler: PythonHandler, Zip: data, Environment: env}, nil

	case strings.HasPrefix(opts.Runtime, "provided"):
		if opts.BootstrapPath == "" {
			return nil, fmt.Errorf("runtime %s needs a bootstrap binary", opts.Runtime)
		}
		binary, err := os.ReadFile(opts.BootstrapPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read bootstrap %s: %w", opts.BootstrapPath, err)
		}
		data, err := zipFile(CustomHandler, binary, 0o755)
		if err != nil {
			return nil, err
		}
		return &Code{Runtime: opts.Runtime, Handler: CustomHandler, Zip: data, Environment: env}, nil

	default:
		return nil, fmt.Errorf("unsupported runtime %q", opts.Runtime)
	}
}

// zipFile returns a zip archive holding a single file.
func zipFile(name string, content []byte, mode os.FileMode) ([]byte, error) {
	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	header.SetMode(mode)

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(writer, bytes.NewReader(content)); err != nil {
		return nil, err
	}
	if err = zipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
