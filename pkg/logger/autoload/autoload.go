// Package autoload configures the global logger from the environment as a
// side effect of import. Blank-import it from main before any logging.
package autoload

import (
	configx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/pkg/config"
	logx "github.com/tanpawarit/Chative-Staged-Persuasion-Dialogue/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
