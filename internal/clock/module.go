package clock

import "go.uber.org/fx"

// Module wires the system clock for fx graphs.
var Module = fx.Provide(func() Clock { return NewSystem() })
