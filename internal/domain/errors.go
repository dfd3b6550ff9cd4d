package domain

import "errors"

// Failure taxonomy for the pipeline. Stages wrap these sentinels with
// fmt.Errorf("%w: ...") so callers can match with errors.Is. Nothing
// recovers internally; any of them aborts the run.
var (
	ErrNetwork  = errors.New("catalog api unreachable")
	ErrSchema   = errors.New("unexpected catalog response shape")
	ErrFormat   = errors.New("malformed event data")
	ErrTemplate = errors.New("template misconfigured")
	ErrSend     = errors.New("email api rejected send")
	ErrConfig   = errors.New("missing configuration")
)
