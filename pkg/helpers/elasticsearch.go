package helpers

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

const (
	esDialTimeout      = 5 * time.Second
	esHeaderTimeout    = 5 * time.Second
	esIdleConnsPerHost = 10
)

// NewESClient builds the client backing catalog product search. Empty
// credentials disable basic auth; the catalog treats a nil client as "search
// locally", so callers may skip construction entirely.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   esIdleConnsPerHost,
			ResponseHeaderTimeout: esHeaderTimeout,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: esDialTimeout}).DialContext,
		},
	})
}
