package cmd

// Middleware wraps a command, e.g. for logging or access checks.
type Middleware func(Command) Command

// Apply applies middlewares in order; the last in the list ends up outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}
