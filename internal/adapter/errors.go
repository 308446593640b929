package adapter

import "errors"

// Failure taxonomy of the remote transport. The orchestrator never inspects
// status codes; it matches these sentinels with [errors.Is].
var (
	// ErrConnectivity is returned when the request never reached the
	// backend (DNS failure, refused connection, timeout). Always retried
	// by a later cycle.
	ErrConnectivity = errors.New("connectivity error")

	// ErrClientRejection is returned when the backend rejected the payload
	// permanently (validation or authorization failure). Resending the
	// same payload will not help; the mutation is terminal.
	ErrClientRejection = errors.New("request rejected by server")

	// ErrUnauthorized is the 401 special case of a client rejection,
	// surfaced separately so callers can prompt for re-enrollment.
	ErrUnauthorized = errors.New("device unauthorized")

	// ErrTransient is returned on server-side or infrastructure failures
	// (5xx). The mutation stays pending and is retried.
	ErrTransient = errors.New("transient server error")
)

// IsPermanent reports whether err means the remote will never accept this
// payload as-is.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrClientRejection) || errors.Is(err, ErrUnauthorized)
}

// IsTransient reports whether err is worth retrying on a later cycle.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrConnectivity)
}
