package gitutil

import (
	"fmt"

	"github.com/gemmit/gemmit/internal/gitcmd"
)

// WrapGitError builds an error message that prefers git stderr output when
// present.
func WrapGitError(action string, result gitcmd.Result, err error) error {
	errMsg := result.StderrString(true)
	if errMsg != "" {
		return fmt.Errorf("%s: %s: %w", action, errMsg, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
