// assets/embed.go
//
// Embedded assets, so the binary does not depend on its working directory:
//   - sql/*.sql                 → database migrations
//   - precomputed_depth2.json   → opening table written by cmd/precompute

package assets

import (
	"bytes"
	"embed"
	"io"
	"io/fs"
)

//go:embed sql/*.sql
var FS embed.FS

//go:embed precomputed_depth2.json
var openingTable []byte

// Migrations returns the sql/ directory as its own filesystem root.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// The embed pattern above guarantees the directory exists.
		panic(err)
	}
	return sub
}

// OpeningTable returns the bundled table asset. Regenerate it with
// `go run ./cmd/precompute -out assets/precomputed_depth2.json`.
func OpeningTable() io.Reader { return bytes.NewReader(openingTable) }
