package telemetry

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
)

// EnvCollectorCACerts holds base64 encoded PEM CA certificates of the trace
// collector. When unset the exporter talks plain HTTP.
const EnvCollectorCACerts = "TRACING_COLLECTOR_CAFILE"

func getTLSConfig(caCertsBase64 string) (*tls.Config, error) {
	caCertsBytes, err := base64.StdEncoding.DecodeString(caCertsBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TLS configuration: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCertsBytes) {
		return nil, errors.New("failed to add CA certificates to CA cert pool")
	}

	return &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}, nil
}
