package ports

// AlgorithmRegistry maps algorithm names to implementations
type AlgorithmRegistry interface {
	Get(name string) (Algorithm, error)
	// Names returns registered names in registration order
	Names() []string
}
