package config

import (
	"runtime"
	"strings"

	"github.com/orizon-lang/conceptcheck/internal/types"
)

var machines32 = []string{"i386", "i486", "i586", "i686", "x86", "386", "arm", "armv6l", "armv7l", "mips", "mipsle", "ppc", "wasm"}

// modelForMachine maps a uname machine or GOARCH name onto a data model.
// Unknown names are assumed 64-bit.
func modelForMachine(machine string) types.DataModel {
	machine = strings.ToLower(machine)
	for _, m := range machines32 {
		if machine == m {
			return types.ILP32
		}
	}
	return types.LP64
}

func goarchMachine() string { return runtime.GOARCH }
