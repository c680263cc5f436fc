// Package componentregistry provides component registration for the
// biznet platform.
package componentregistry

import (
	"errors"

	"github.com/c360/biznet/component"
	pkgerrors "github.com/c360/biznet/errors"
	"github.com/c360/biznet/processor/netgraph"
)

// Register registers all biznet components with the provided registry.
// Today that is the network graph processor; additional components join
// here as they land.
func Register(registry *component.Registry) error {
	// Nil registry is a programming error (fatal), not invalid input.
	if registry == nil {
		return pkgerrors.WrapFatal(
			errors.New("registry cannot be nil"),
			"ComponentRegistry", "Register", "registry validation")
	}

	if err := netgraph.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ComponentRegistry", "Register",
			"network graph component registration")
	}

	return nil
}
