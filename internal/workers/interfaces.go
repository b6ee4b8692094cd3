// Package workers runs the periodic maintenance jobs of the server: removal
// of expired temp uploads and reconciliation of file records with the blob
// store.
package workers

import "context"

// Worker is a background job. Run blocks until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}
