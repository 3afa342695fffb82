package interfaces

// Service interface defines the methods that every kind of interface exposed
// by the daemon, like the HTTP one serving metrics and snapshots, must be
// compliant with.
type Service interface {
	Start() error
	Stop()
}
