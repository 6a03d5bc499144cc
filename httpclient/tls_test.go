package httpclient

import (
	"crypto/tls"
	"strings"
	"testing"

	"github.com/kbukum/typedhttp/testutil/tlstest"
)

func TestTLSConfig_Disabled(t *testing.T) {
	for name, cfg := range map[string]*TLSConfig{"nil": nil, "zero": {}} {
		if cfg.IsEnabled() {
			t.Errorf("%s: expected disabled", name)
		}
		got, err := cfg.Build()
		if err != nil || got != nil {
			t.Errorf("%s: expected nil, nil; got %v, %v", name, got, err)
		}
	}
}

func TestTLSConfig_Build(t *testing.T) {
	tests := []struct {
		name string
		cfg  TLSConfig
		want func(*tls.Config) bool
	}{
		{"defaults to 1.2", TLSConfig{ServerName: "api.example.com"}, func(c *tls.Config) bool {
			return c.MinVersion == tls.VersionTLS12 && c.ServerName == "api.example.com" && !c.InsecureSkipVerify
		}},
		{"1.3", TLSConfig{MinVersion: "1.3"}, func(c *tls.Config) bool {
			return c.MinVersion == tls.VersionTLS13
		}},
		{"skip verify", TLSConfig{SkipVerify: true}, func(c *tls.Config) bool {
			return c.InsecureSkipVerify
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.cfg.Build()
			if err != nil {
				t.Fatal(err)
			}
			if !tc.want(got) {
				t.Errorf("unexpected tls.Config %+v", got)
			}
		})
	}
}

func TestTLSConfig_BuildFromFiles(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	got, err := (&TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if got.RootCAs == nil || len(got.Certificates) != 1 {
		t.Errorf("expected CA pool and one client certificate, got %+v", got)
	}
}

func TestTLSConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  TLSConfig
		want string
	}{
		{"missing ca", TLSConfig{CAFile: "/nonexistent/ca.pem"}, "read ca_file"},
		{"invalid ca", TLSConfig{CAFile: tlstest.WriteInvalidPEM(t, "bad-ca.pem")}, "no certificates"},
		{"missing pair", TLSConfig{CertFile: "/nonexistent/c.pem", KeyFile: "/nonexistent/k.pem"}, "client key pair"},
		{"cert without key", TLSConfig{CertFile: "c.pem"}, "set together"},
		{"key without cert", TLSConfig{KeyFile: "k.pem"}, "set together"},
		{"bad version", TLSConfig{MinVersion: "1.0"}, "min_version"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cfg.Build()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}

	var nilCfg *TLSConfig
	if err := nilCfg.Validate(); err != nil {
		t.Errorf("nil config should validate, got %v", err)
	}
}
