// Package sidechannel renders the artefacts of the usage guard: the IAM policy
// documents, the stop-function package and the alarm threshold.
package sidechannel

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/vpnforge/vpnforge/internal/assets"
)

type trustPolicyData struct {
	Principal string
}

// StopPolicyData scopes the inline policy of the stop function's role.
// AddressARN is optional.
type StopPolicyData struct {
	InstanceARN string
	AddressARN  string
}

var templateFuncs = template.FuncMap{
	"pyquote": strconv.Quote,
}

func render(name string, data any) (string, error) {
	text, err := assets.GetTemplate(name)
	if err != nil {
		return "", fmt.Errorf("failed to load template %s: %w", name, err)
	}
	tpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	buf := &bytes.Buffer{}
	if err = tpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// TrustPolicy returns the assume-role document letting principal assume the role.
func TrustPolicy(principal string) (string, error) {
	return render(assets.TrustPolicyTemplate, trustPolicyData{Principal: principal})
}

// StopInstancePolicy returns the inline policy allowing the function to stop
// the one instance it guards.
func StopInstancePolicy(data StopPolicyData) (string, error) {
	if data.InstanceARN == "" {
		return "", fmt.Errorf("instance ARN is required")
	}
	return render(assets.StopInstancePolicyTemplate, data)
}
