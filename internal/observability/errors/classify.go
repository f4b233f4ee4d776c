package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
)

// Classify returns a short error class suitable for tagging metrics and logs.
// Application errors report their code; anything else reports the innermost
// concrete type as a snake_case-ish name (e.g. "net_operror").
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
	if name == "" {
		return "unknown"
	}
	return name
}
