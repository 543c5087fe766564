//go:build !unix && !windows

package config

import "github.com/orizon-lang/conceptcheck/internal/types"

// HostModel reports the data model of the running machine.
func HostModel() types.DataModel { return modelForMachine(goarchMachine()) }
