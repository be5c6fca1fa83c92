package common

import (
	"sibond/crypto"
	ledgererrors "sibond/ledger/errors"
)

// Capability is the wiring-time handle each leaf component uses to store
// the identity of the single caller authorised to invoke its
// operator-only entry points, resolved once when the host constructs the
// graph. It is deliberately not an interface or a back-pointer to the
// caller's own type, so the dependency cycle between Controller and the
// leaves never needs to exist.
type Capability struct {
	holder crypto.Address
	set    bool
}

// Bind assigns the authorised caller. It is intended to be invoked exactly
// once at wiring time; rebinding is allowed so tests can swap a stub
// controller in, but production callers should treat it as write-once.
func (c *Capability) Bind(addr crypto.Address) {
	c.holder = addr
	c.set = true
}

// Authorize returns ErrNotOperator unless caller equals the bound holder.
// An unbound capability authorises nobody.
func (c *Capability) Authorize(caller crypto.Address) error {
	if c == nil || !c.set || !c.holder.Equal(caller) {
		return ledgererrors.ErrNotOperator
	}
	return nil
}

// Holder returns the currently bound address.
func (c *Capability) Holder() crypto.Address {
	if c == nil {
		return crypto.Address{}
	}
	return c.holder
}
