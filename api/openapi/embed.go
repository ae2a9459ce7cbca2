// Package openapi carries the relay's OpenAPI document.
package openapi

import _ "embed"

// Spec is the OpenAPI 3 document for the relay, in YAML
//
//go:embed openapi.yaml
var Spec []byte
