package health

// Checker reports whether the narrative service can be called.
type Checker interface {
	CredentialConfigured() bool
}

// Status is the health payload.
type Status struct {
	OK                   bool   `json:"ok"`
	Service              string `json:"service"`
	Provider             string `json:"provider"`
	CredentialConfigured bool   `json:"credentialConfigured"`
}

// Service encapsulates health-related checks.
type Service struct {
	name     string
	provider string
	checker  Checker
}

// NewService constructs a new health service.
func NewService(name, provider string, checker Checker) *Service {
	return &Service{name: name, provider: provider, checker: checker}
}

// Status reports liveness. The process is live even without a credential;
// analyses will fail until one is configured.
func (s *Service) Status() Status {
	configured := s.checker != nil && s.checker.CredentialConfigured()
	return Status{
		OK:                   true,
		Service:              s.name,
		Provider:             s.provider,
		CredentialConfigured: configured,
	}
}
