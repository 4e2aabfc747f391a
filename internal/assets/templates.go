// Package assets provides access to embedded policy and stop-function templates.
package assets

import (
	"embed"
)

// files embeds the AWS policy documents and the stop-function sources.
//
//go:embed aws/*.tmpl stopper/*.tmpl
var files embed.FS

// Template names.
const (
	TrustPolicyTemplate        = "aws/trust-policy.json.tmpl"
	StopInstancePolicyTemplate = "aws/stop-instance-policy.json.tmpl"
	StopFunctionPythonTemplate = "stopper/lambda_function.py.tmpl"
)

// GetTemplate returns the raw text of an embedded template.
func GetTemplate(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
