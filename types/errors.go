package types

import "fmt"

// RemoteServiceError is any non-success answer from an upstream service:
// the embedding provider, the vector store search or the completion API.
type RemoteServiceError struct {
	Service string
	Status  int
	Body    string
}

func (e RemoteServiceError) Error() string {
	return fmt.Sprintf("%s API error: status %d, body: %s", e.Service, e.Status, e.Body)
}

// ConfigurationError means a required credential or setting is absent.
// Fatal at indexer startup, immediate request failure on the chat path.
type ConfigurationError struct {
	Key string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("%s is required", e.Key)
}
