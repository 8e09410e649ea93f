package lsql

import (
	"fmt"
)

var (
	ErrDatabaseEngineNotSupported = fmt.Errorf("database engine not supported")
	ErrNestedTransaction          = fmt.Errorf("can't nest transactions")
	ErrTransactionContext         = fmt.Errorf("tried to use database with a transaction context")
	ErrNoTransactionContext       = fmt.Errorf("tried to use transaction without a transaction context")
)
