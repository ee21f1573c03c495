package models

import "errors"

// Storage sentinels. Store implementations wrap these so services can tell a
// missing row or a unique-constraint hit from any other failure.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
