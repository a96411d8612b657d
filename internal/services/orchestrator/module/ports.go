package module

import "ipvault/internal/services/orchestrator/domain"

// Ports exposes the orchestrator to other modules
type Ports struct {
	Orchestrator domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
