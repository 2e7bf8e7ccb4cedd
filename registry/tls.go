package registry

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// clientTLSConfig builds the tls.Config for the etcd client from the
// registry's TLS settings. Returns nil when TLS is disabled. Mutual TLS is
// assumed: client certificate, key, and CA are all required once enabled.
func clientTLSConfig(cfg *TLSConfig) (*tls.Config, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	for name, path := range map[string]string{
		"cert_file": cfg.CertFile,
		"key_file":  cfg.KeyFile,
		"ca_file":   cfg.CAFile,
	} {
		if path == "" {
			return nil, fmt.Errorf("%s is required when registry TLS is enabled", name)
		}
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client certificate: %w", err)
	}

	caData, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caData) {
		return nil, fmt.Errorf("CA file %s contains no usable PEM certificates", cfg.CAFile)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caPool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
