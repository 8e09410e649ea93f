package sqlite

import "embed"

//go:embed *.sql
var Files embed.FS
