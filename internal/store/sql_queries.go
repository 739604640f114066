// SPDX-License-Identifier: Apache-2.0

package store

const (
	upsertRecord = `
		INSERT INTO records (
			store,
			id,
			scope,
			title,
			payload,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (store, id) DO UPDATE SET
			scope      = excluded.scope,
			title      = excluded.title,
			payload    = excluded.payload,
			updated_at = excluded.updated_at;`

	getRecord = `
		SELECT store, id, scope, title, payload, updated_at
		FROM records
		WHERE store = $1 AND id = $2;`

	getAllRecords = `
		SELECT store, id, scope, title, payload, updated_at
		FROM records
		WHERE store = $1
		ORDER BY id;`

	getRecordsByScope = `
		SELECT store, id, scope, title, payload, updated_at
		FROM records
		WHERE store = $1 AND scope = $2
		ORDER BY id;`

	deleteRecord = `
		DELETE FROM records
		WHERE store = $1 AND id = $2;`

	deleteRecordsByScope = `
		DELETE FROM records
		WHERE store = $1 AND scope = $2;`

	clearRecords = `
		DELETE FROM records
		WHERE store = $1;`

	countRecords = `
		SELECT COUNT(*)
		FROM records
		WHERE store = $1;`

	insertPendingOperation = `
		INSERT INTO pending_operations (
			id,
			kind,
			endpoint,
			method,
			payload,
			created_at,
			retry_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7);`

	getAllPendingOperations = `
		SELECT id, kind, endpoint, method, payload, created_at, retry_count
		FROM pending_operations
		ORDER BY created_at, id;`

	getPendingOperationsByKind = `
		SELECT id, kind, endpoint, method, payload, created_at, retry_count
		FROM pending_operations
		WHERE kind = $1
		ORDER BY created_at, id;`

	getPendingOperation = `
		SELECT id, kind, endpoint, method, payload, created_at, retry_count
		FROM pending_operations
		WHERE id = $1;`

	incrementPendingRetry = `
		UPDATE pending_operations
		SET retry_count = retry_count + 1
		WHERE id = $1;`

	deletePendingOperation = `
		DELETE FROM pending_operations
		WHERE id = $1;`

	clearPendingOperations = `
		DELETE FROM pending_operations;`

	countPendingOperations = `
		SELECT COUNT(*)
		FROM pending_operations;`

	upsertMetadata = `
		INSERT INTO cache_metadata (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at;`

	getMetadata = `
		SELECT key, value, updated_at
		FROM cache_metadata
		WHERE key = $1;`
)
