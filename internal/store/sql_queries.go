package store

const (
	upsertMutation = `
		INSERT INTO queue (
			request_id,
			method,
			target,
			payload,
			retries,
			status,
			error,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT(request_id) DO UPDATE SET
			method     = excluded.method,
			target     = excluded.target,
			payload    = excluded.payload,
			status     = excluded.status,
			error      = excluded.error,
			updated_at = excluded.updated_at;`

	getMutation = `
		SELECT
			request_id,
			method,
			target,
			payload,
			retries,
			status,
			error,
			created_at,
			updated_at
		FROM queue
		WHERE request_id = $1;`

	deleteMutation = `
		DELETE FROM queue
		WHERE request_id = $1;`

	markMutationFailed = `
		UPDATE queue SET
			retries    = retries + 1,
			status     = $1,
			error      = $2,
			updated_at = $3
		WHERE request_id = $4;`

	upsertEntity = `
		INSERT INTO entity_cache (id, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT(id) DO UPDATE SET
			payload    = excluded.payload,
			updated_at = excluded.updated_at
		WHERE excluded.updated_at > entity_cache.updated_at;`

	getEntity = `
		SELECT id, payload, updated_at
		FROM entity_cache
		WHERE id = $1;`

	setMetadataValue = `
		INSERT INTO metadata (key, value)
		VALUES ($1, $2)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value;`

	getMetadataValue = `
		SELECT value
		FROM metadata
		WHERE key = $1;`
)

// queueColumns is the column order shared by squirrel-built queue scans and
// scanQueuedMutation.
var queueColumns = []string{
	"request_id",
	"method",
	"target",
	"payload",
	"retries",
	"status",
	"error",
	"created_at",
	"updated_at",
}
