package module

import "ipvault/internal/services/uploader/domain"

// Ports exposes the uploader to other modules
type Ports struct {
	Uploader domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
