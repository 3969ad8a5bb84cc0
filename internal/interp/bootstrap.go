package interp

import _ "embed"

// bootstrapSource is evaluated into every fresh Interpreter's global
// environment before any host or script code runs, installing the
// minimum derived-form macros (§6: "the bootstrap script must define at
// least let and cond").
//
//go:embed assets/init.ss
var bootstrapSource string
