// Package version reports what chaincode binary is serving the ledger.
package version

import (
	"os"
	"runtime/debug"
)

const envChaincodeIDName = "CORE_CHAINCODE_ID_NAME"

// Info identifies the running chaincode.
type Info struct {
	ChaincodeName string `json:"chaincodeName,omitempty"`
	GoVersion     string `json:"goVersion,omitempty"`
	Module        string `json:"module,omitempty"`
	ModuleVersion string `json:"moduleVersion,omitempty"`
	Revision      string `json:"revision,omitempty"`
}

// Current collects the chaincode name given by the peer and the build
// information embedded in the binary. Missing parts are left empty.
func Current() Info {
	info := Info{ChaincodeName: os.Getenv(envChaincodeIDName)}

	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return info
	}

	info.GoVersion = bi.GoVersion
	info.Module = bi.Main.Path
	info.ModuleVersion = bi.Main.Version
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			info.Revision = s.Value
		}
	}

	return info
}
