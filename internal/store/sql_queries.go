// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package store

const (
	createAccount = `INSERT INTO accounts (email_hash, email, password_hash, wrapped_data_key, created_at)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING account_id, email_hash, email, password_hash, wrapped_data_key, created_at;`

	findAccountByEmailHash = `SELECT account_id, email_hash, email, password_hash, wrapped_data_key, created_at
    FROM accounts
    WHERE email_hash = $1;`

	findAccountByEmail = `SELECT account_id, email_hash, email, password_hash, wrapped_data_key, created_at
    FROM accounts
    WHERE email = $1;`

	findAccountByID = `SELECT account_id, email_hash, email, password_hash, wrapped_data_key, created_at
    FROM accounts
    WHERE account_id = $1;`

	updateAccountCredentials = `UPDATE accounts
    SET password_hash = $2, wrapped_data_key = $3
    WHERE account_id = $1;`

	updateAccountEmailIndex = `UPDATE accounts
    SET email_hash = $2, email = $3
    WHERE account_id = $1;`

	createSession = `INSERT INTO sessions (session_id, account_id, data_key, expires_at, created_at)
    VALUES ($1, $2, $3, $4, $5);`

	getSession = `SELECT session_id, account_id, data_key, expires_at, created_at
    FROM sessions
    WHERE session_id = $1;`

	deleteSession = `DELETE FROM sessions
    WHERE session_id = $1;`

	deleteExpiredSessions = `DELETE FROM sessions
    WHERE expires_at <= $1;`

	saveSessionDataKey = `UPDATE sessions
    SET data_key = $2
    WHERE session_id = $1;`

	getSessionDataKey = `SELECT data_key
    FROM sessions
    WHERE session_id = $1 AND expires_at > $2;`

	clearSessionDataKey = `UPDATE sessions
    SET data_key = NULL
    WHERE session_id = $1;`
)
