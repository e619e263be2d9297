package mgclient

// Version is set by build flags during compilation.
// Example: go build -ldflags "-X github.com/memgraph/mgclient-go.Version=$(git describe --tags --always --dirty)"
var Version = "dev"
