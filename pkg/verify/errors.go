package verify

import (
	"fmt"

	"github.com/entrhq/uiverify/pkg/browser"
)

// ErrTimeout matches any step whose bounded wait or locate did not resolve.
var ErrTimeout = browser.ErrTimeout

// StepError reports the first step that failed.
type StepError struct {
	Index  int
	Action Action
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index, e.Action, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
