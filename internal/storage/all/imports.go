// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: importing it runs the init function of
// each backend, which registers its factory with the storage package. The
// following kinds become available:
//
//   - "sqlite"   (salesetl/internal/storage/sqlite)
//   - "postgres" (salesetl/internal/storage/postgres)
//   - "mssql"    (salesetl/internal/storage/mssql)
//   - "mysql"    (salesetl/internal/storage/mysql)
//
// A binary that needs only a subset can import the backends directly.
package all

import (
	_ "salesetl/internal/storage/mssql"
	_ "salesetl/internal/storage/mysql"
	_ "salesetl/internal/storage/postgres"
	_ "salesetl/internal/storage/sqlite"
)
