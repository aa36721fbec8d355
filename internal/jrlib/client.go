package jrlib

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Used when the CLI talks to the server; the library leaves the client alone.
const requestTimeout = 60 * time.Second

func GetClient(cacert string) (http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cacert != "" {
		data, err := os.ReadFile(cacert)
		if err != nil {
			return http.Client{}, err
		}
		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM(data) {
			return http.Client{}, fmt.Errorf(
				"could not load certificates from file '%s'",
				cacert,
			)
		}

		transport.TLSClientConfig = &tls.Config{RootCAs: certPool}
	}

	return http.Client{Transport: transport, Timeout: requestTimeout}, nil
}
