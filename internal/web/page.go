package web

import _ "embed"

//go:embed static/index.html
var indexPage []byte
