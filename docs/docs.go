// Package docs ships the API reference with the binary.
package docs

import _ "embed"

//go:embed scalar.html
var ScalarHTML []byte

//go:embed openapi.json
var OpenAPI []byte
