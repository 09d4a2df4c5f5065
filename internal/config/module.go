package config

import "go.uber.org/fx"

// Module loads configuration from process arguments and environment.
// Tests substitute it with fx.Replace.
var Module = fx.Provide(Load)
