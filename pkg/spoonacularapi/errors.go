package spoonacularapi

import "fmt"

// Failure classifiers carried in the "error" field of a failure result.
const (
	transportErrorLabel = "Failed to retrieve data from API"
	remoteErrorFormat   = "API request failed with status code %d"
)

// RemoteError reports a response with a non-200 status.
type RemoteError struct {
	StatusCode int
	Body       string
}

// Label returns the classifier, which embeds the status code.
func (e *RemoteError) Label() string {
	return fmt.Sprintf(remoteErrorFormat, e.StatusCode)
}

func (e *RemoteError) Error() string {
	return e.Label() + ": " + e.Body
}

// TransportError reports a request that produced no usable response:
// connection failures, unreadable bodies and undecodable JSON.
type TransportError struct {
	Err error
}

// Label returns the fixed classifier.
func (e *TransportError) Label() string {
	return transportErrorLabel
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return transportErrorLabel
	}
	return transportErrorLabel + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
