// Package modkit assembles API modules from shared deps, options and an embeddable routing base
package modkit

import "ipvault/internal/modkit/module"

// Module is what the api mounts: routes, a name and an optional port set
type Module = module.Module
