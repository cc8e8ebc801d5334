// Package all wires the built-in storage backends into the storage factory.
//
// It exists purely for side effects: importing it (even blank) runs the init
// functions of each backend, which register their factories, schema
// bootstrappers, and warehouse dialects. Binaries that should support only a
// subset of backends can import the individual backend packages instead.
package all

import (
	_ "salesetl/internal/storage/postgres"
	_ "salesetl/internal/storage/sqlite"
)
