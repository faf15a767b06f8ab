package models

// ServiceStatus is the discrete state of a service relative to its triggers.
// It is computed on demand and never stored. Presentation concerns (colors,
// icons) live with the callers.
type ServiceStatus string

const (
	StatusOverdue ServiceStatus = "overdue"
	StatusDueSoon ServiceStatus = "due_soon"
	StatusGood    ServiceStatus = "good"
	StatusNeutral ServiceStatus = "neutral"
)

// IsActionable reports whether the status makes the service a candidate for
// bundled servicing.
func (s ServiceStatus) IsActionable() bool {
	return s == StatusOverdue || s == StatusDueSoon
}
