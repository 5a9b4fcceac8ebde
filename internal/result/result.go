// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GameGate Contributors

// Package result defines the closed set of outcome codes returned to clients
// and the typed failure used to carry a code through error returns.
package result

import "strconv"

// Code is an outcome code carried in every response envelope as resultCode.
// Values are part of the wire protocol and must never change meaning.
type Code int

// Outcome codes. Extend this table for new outcomes; never reuse a value.
const (
	Success Code = 0
	Fail    Code = -1

	DBError Code = -10

	UserAlreadyLoggedIn  Code = -100
	UserNotFindDBInfo    Code = -101
	UserAlreadyExistInfo Code = -102
	UserPassNotMatch     Code = -103
)

var names = map[Code]string{
	Success:              "Success",
	Fail:                 "Fail",
	DBError:              "DBError",
	UserAlreadyLoggedIn:  "UserAlreadyLoggedIn",
	UserNotFindDBInfo:    "UserNotFindDBInfo",
	UserAlreadyExistInfo: "UserAlreadyExistInfo",
	UserPassNotMatch:     "UserPassNotMatch",
}

// String returns the stable name of the code, or "Code(n)" for values
// outside the table.
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c is a member of the table.
func (c Code) Valid() bool {
	_, ok := names[c]
	return ok
}

// Int returns the wire value.
func (c Code) Int() int {
	return int(c)
}
