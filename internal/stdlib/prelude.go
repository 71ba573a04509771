package stdlib

import _ "embed"

//go:embed prelude.sw
var preludeSource string
