package agentspec

import "fmt"

// MalformedSpecError reports an agent specification whose top-level document
// cannot be trusted at all. It is fatal to the whole run: individual bad
// tools degrade to warnings instead.
type MalformedSpecError struct {
	Reason string
	Err    error
}

func (e *MalformedSpecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed agent spec: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed agent spec: %s", e.Reason)
}

func (e *MalformedSpecError) Unwrap() error { return e.Err }
