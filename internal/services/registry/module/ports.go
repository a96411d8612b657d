package module

import "ipvault/internal/services/registry/domain"

// Ports exposes the registry to other modules
type Ports struct {
	Registry domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
