package component

import "fmt"

// NATSPort describes a plain NATS pub/sub binding, used for event and
// health publishing.
type NATSPort struct {
	Subject   string             `json:"subject"`
	Queue     string             `json:"queue,omitempty"`
	Interface *InterfaceContract `json:"interface,omitempty"`
}

// ResourceID returns the unique identifier for conflict detection
func (n NATSPort) ResourceID() string {
	return fmt.Sprintf("nats:%s", n.Subject)
}

// IsExclusive returns false; any number of components may subscribe
func (n NATSPort) IsExclusive() bool {
	return false
}

// Type returns the port type identifier
func (n NATSPort) Type() string {
	return "nats"
}

// NATSRequestPort describes a request/reply binding for synchronous
// query and mutation handling.
type NATSRequestPort struct {
	Subject   string             `json:"subject"`
	Timeout   string             `json:"timeout,omitempty"` // Duration string e.g. "1s", "500ms"
	Retries   int                `json:"retries,omitempty"`
	Interface *InterfaceContract `json:"interface,omitempty"`
}

// ResourceID returns the unique identifier for conflict detection
func (n NATSRequestPort) ResourceID() string {
	return fmt.Sprintf("nats-request:%s", n.Subject)
}

// IsExclusive returns false; responders can be load-balanced
func (n NATSRequestPort) IsExclusive() bool {
	return false
}

// Type returns the port type identifier
func (n NATSRequestPort) Type() string {
	return "nats-request"
}
