package cloud

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/smithy-go"

	appErrors "github.com/vpnforge/vpnforge/internal/errors"
	awsConstants "github.com/vpnforge/vpnforge/internal/providers/aws/constants"
)

// classify maps an SDK error onto the taxonomy.
func classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	if isNotFound(err) {
		return appErrors.ErrAlreadyAbsent(message, err)
	}
	return appErrors.ErrRemoteRejected(message, err)
}

// absent reports a target the service answered for with an empty result.
func absent(format string, args ...any) error {
	return appErrors.ErrAlreadyAbsent(fmt.Sprintf(format, args...), nil)
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func isNotFound(err error) bool {
	code := errorCode(err)
	if code == "" {
		return false
	}
	return strings.HasSuffix(code, ".NotFound") || slices.Contains(awsConstants.NotFoundErrorCodes, code)
}

func isAlreadyExists(err error) bool {
	code := errorCode(err)
	return code != "" && slices.Contains(awsConstants.AlreadyExistsErrorCodes, code)
}
