package config

import "fmt"

// certSource pairs the file and inline forms of one PEM input
type certSource struct {
	name    string
	file    string
	content string
}

func (s certSource) present() bool {
	return s.file != "" || s.content != ""
}

func (s certSource) ambiguous() bool {
	return s.file != "" && s.content != ""
}

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	cert := certSource{name: "cert", file: tls.CertFile, content: tls.CertContent}
	key := certSource{name: "key", file: tls.KeyFile, content: tls.KeyContent}
	ca := certSource{name: "ca", file: tls.CAFile, content: tls.CAContent}

	var required []certSource
	switch tls.Mode {
	case "disabled":
		return nil
	case "server":
		required = []certSource{cert, key}
	case "mutual":
		required = []certSource{cert, key, ca}
		if err := validateClientAuthPolicy(tls.ClientAuthPolicy); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	for _, src := range required {
		if !src.present() {
			return fmt.Errorf("TLS %s is required for %s mode (set %sFile or %sContent)", src.name, tls.Mode, src.name, src.name)
		}
		if src.ambiguous() {
			return fmt.Errorf("cannot specify both %sFile and %sContent", src.name, src.name)
		}
	}

	return validateTLSVersion(tls.MinVersion)
}

func validateClientAuthPolicy(policy string) error {
	switch policy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", policy)
	}
}

func validateTLSVersion(version string) error {
	switch version {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", version)
	}
}
