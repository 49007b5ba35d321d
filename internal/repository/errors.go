package repository

import "errors"

// ErrDuplicateEmail is returned by UserRepository.Create when another
// account already uses the email.
var ErrDuplicateEmail = errors.New("email already registered")
