package kb

import _ "embed"

// embeddedKB is the dataset compiled into the binary by the build-kb tool.
// A kb.path config override replaces it at startup without a rebuild.
//
//go:embed data/additives.json
var embeddedKB []byte
