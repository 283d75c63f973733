/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package exit carries process exit codes from commands back to main.
package exit

import "fmt"

// Error asks main to exit with Code without printing anything further.
type Error struct {
	Code int
}

func (e *Error) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Code returns nil for zero and an *Error otherwise.
func Code(code int) error {
	if code == 0 {
		return nil
	}
	return &Error{Code: code}
}
