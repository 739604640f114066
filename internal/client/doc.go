// SPDX-License-Identifier: Apache-2.0

// Package client implements the offline data layer runtime.
//
// It wires local storage, the remote API adapter, the connectivity monitor,
// services, and background workers into a single process lifecycle.
package client
