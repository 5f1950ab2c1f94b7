package debugger

// context is passed to the console and its components
type context struct {
	// whether the components are allowed to log. logging is switched off
	// while rendering because the render is repeatable and the log entries
	// would be noise
	logging bool
}

func (ctx *context) AllowLogging() bool {
	return ctx.logging
}
