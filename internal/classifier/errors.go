package classifier

import "errors"

var (
	// ErrUnavailable indicates the model endpoint could not be reached or
	// did not respond within its deadline.
	ErrUnavailable = errors.New("classifier unavailable")

	// ErrBadResponse indicates the model responded with a payload that does
	// not satisfy the classification contract.
	ErrBadResponse = errors.New("classifier returned invalid response")
)
