//go:build release

package tracinginit

const activePolicyName = "release"

//nolint:gochecknoglobals
var activePolicy LevelPolicy = ReleasePolicy
