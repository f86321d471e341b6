package main

import (
	"fmt"

	newsdochttp "github.com/fwojciec/newsdoc/http"
)

// Run executes the serve command. It blocks until the context is canceled
// and then shuts the server down gracefully.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := newsdochttp.NewServer()
	s.Addr = c.Addr
	s.Resolver = deps.Resolver
	s.Logger = deps.Logger
	if deps.Metrics != nil {
		s.Metrics = deps.Metrics.Handler()
	}

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	deps.Logger.Info("listening", "url", s.URL())

	<-deps.Ctx.Done()

	deps.Logger.Info("shutting down")
	return s.Close()
}
