//go:build unix

package config

import (
	"golang.org/x/sys/unix"

	"github.com/orizon-lang/conceptcheck/internal/types"
)

// HostModel reports the data model of the running machine.
func HostModel() types.DataModel {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return types.LP64
	}
	return modelForMachine(unix.ByteSliceToString(uts.Machine[:]))
}
