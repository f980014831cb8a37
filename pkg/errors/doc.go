// Package errors provides structured error types with stable codes so
// callers can distinguish timeouts, missing resources, and unavailable
// host facilities without string matching.
//
// Example usage:
//
//	if err := wait.ForDeployment(ctx, opts); err != nil {
//	    return errors.Wrap(errors.ErrCodeTimeout, "controller rollout", err)
//	}
package errors
