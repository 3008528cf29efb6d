//go:build !release

package tracinginit

const activePolicyName = "debug"

//nolint:gochecknoglobals
var activePolicy LevelPolicy = DebugPolicy
