//go:build windows

package config

import "github.com/orizon-lang/conceptcheck/internal/types"

// HostModel reports the data model of the running machine.
func HostModel() types.DataModel {
	if modelForMachine(goarchMachine()).Name == types.ILP32.Name {
		return types.ILP32
	}
	return types.LLP64
}
