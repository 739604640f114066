// SPDX-License-Identifier: Apache-2.0

package client

import "context"

// Runner is the minimal lifecycle contract the embedding application sees.
type Runner interface {
	// Start launches the background components and returns immediately.
	Start(ctx context.Context)
	// Stop shuts everything down and releases the local store.
	Stop() error
}

var _ Runner = (*App)(nil)
