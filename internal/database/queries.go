/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

const (
	// Record queries
	queryGetRecord = `
		SELECT data
		FROM records
		WHERE segment = ? AND id = ?`

	queryUpsertRecord = `
		INSERT INTO records (segment, id, data)
		VALUES (?, ?, ?)
		ON CONFLICT (segment, id) DO UPDATE SET
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP`

	queryScanRecords = `
		SELECT id, data
		FROM records
		WHERE segment = ? AND id > ?
		ORDER BY id
		LIMIT ?`

	// Counter queries
	queryIncrementCounter = `
		INSERT INTO counters (segment, value)
		VALUES (?, 1)
		ON CONFLICT (segment) DO UPDATE SET
			value = value + 1
		RETURNING value`
)
