package version

import "fmt"

// Name is reported by the root endpoint and the version command.
const Name = "Buddhist Digital Library API"

// See http://semver.org/ for more information on Semantic Versioning
var (
	Major      = 1
	Minor      = 0
	Patch      = 0
	PreRelease = ""
)

var Version = fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)

func init() {
	if PreRelease != "" {
		Version += "-" + PreRelease
	}
}
