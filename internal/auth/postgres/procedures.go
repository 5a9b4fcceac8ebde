// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

package postgres

// Procedure is a named stored procedure and the call text that runs it.
// Params lists argument names in positional order; they are logged, the
// values never are.
type Procedure struct {
	Name   string
	SQL    string
	Params []string
}

// Procedures backed by the functions in internal/store/migrations.
var (
	SelectUserInfo = Procedure{
		Name: "SELECT_USER_INFO",
		SQL: `SELECT user_seq, COALESCE(token, ''), user_name, user_pass, char_type,
       user_point, max_score, create_date, latest_date
FROM select_user_info($1)`,
		Params: []string{"userName"},
	}

	InsertUserInfo = Procedure{
		Name:   "INSERT_USER_INFO",
		SQL:    `SELECT insert_user_info($1, $2, $3)`,
		Params: []string{"userName", "userPass", "charType"},
	}

	UpdateUserToken = Procedure{
		Name:   "UPDATE_USER_TOKEN",
		SQL:    `SELECT update_user_token($1, $2)`,
		Params: []string{"userName", "token"},
	}
)

// Procedures returns every procedure the gateway calls.
func Procedures() []Procedure {
	return []Procedure{SelectUserInfo, InsertUserInfo, UpdateUserToken}
}
