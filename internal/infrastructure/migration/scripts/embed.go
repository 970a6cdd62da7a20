// Package scripts holds the versioned MySQL schema migrations.
package scripts

import "embed"

//go:embed *.sql
var FS embed.FS
