// Package version holds Solo's build-time version metadata, set via
// -ldflags at release build time (grounded in the teacher's pkg/version).
package version

// BinaryName is the CLI's executable name, used in usage text and in the
// command-path prefix soloerr.Solo attaches to a failing command.
const BinaryName = "solo"

// Version is the released solo CLI version; overridden at build time via
// -ldflags "-X github.com/hashgraph/solo-sub009/pkg/version.Version=...".
var Version = "dev"
