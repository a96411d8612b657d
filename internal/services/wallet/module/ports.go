package module

import "ipvault/internal/services/wallet/domain"

// Ports exposes the session to other modules
type Ports struct {
	Session domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
