package loom

// release is the last tagged version of the module.
const release = "v0.1.0"

// Commit is the git commit the binaries were built from, set at link time
// with -ldflags "-X github.com/iov-one/loom.Commit=<sha>". Builds without
// it report a development version.
var Commit = ""

// Version returns the release and, for development builds, the commit.
func Version() string {
	if Commit == "" {
		return release + "-dev"
	}
	return release + "-" + Commit
}
