package ssl

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"testing"
)

func parseTestCert(t *testing.T, pemData string) *x509.Certificate {
	t.Helper()
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		t.Fatal("failed to decode test PEM")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("failed to parse test certificate: %v", err)
	}
	return cert
}

func testRoots(t *testing.T, pemData string) *x509.CertPool {
	t.Helper()
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(pemData)) {
		t.Fatal("failed to build test root pool")
	}
	return pool
}

func TestX509ChainVerifier(t *testing.T) {
	verifier := X509ChainVerifier{}
	leaf := parseTestCert(t, testClientCertPEM)

	t.Run("no peer certificates", func(t *testing.T) {
		if err := verifier.Verify(nil, testRoots(t, testCAPEM)); err == nil {
			t.Fatal("expected error for empty chain")
		}
	})

	t.Run("chain verifies against issuing CA", func(t *testing.T) {
		if err := verifier.Verify([]*x509.Certificate{leaf}, testRoots(t, testCAPEM)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("chain fails against unrelated CA", func(t *testing.T) {
		if err := verifier.Verify([]*x509.Certificate{leaf}, testRoots(t, testOtherCAPEM)); err == nil {
			t.Fatal("expected error against unrelated root")
		}
	})
}

func TestChainOnlyConnectionVerifier(t *testing.T) {
	leaf := parseTestCert(t, testClientCertPEM)
	roots := testRoots(t, testCAPEM)
	verify := chainOnlyConnectionVerifier(X509ChainVerifier{}, roots)

	t.Run("valid chain", func(t *testing.T) {
		cs := tls.ConnectionState{PeerCertificates: []*x509.Certificate{leaf}}
		if err := verify(cs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("failure propagates", func(t *testing.T) {
		reject := chainOnlyConnectionVerifier(X509ChainVerifier{}, testRoots(t, testOtherCAPEM))
		cs := tls.ConnectionState{PeerCertificates: []*x509.Certificate{leaf}}
		if err := reject(cs); err == nil {
			t.Fatal("expected verification error to propagate")
		}
	})

	t.Run("empty chain rejected", func(t *testing.T) {
		if err := verify(tls.ConnectionState{}); err == nil {
			t.Fatal("expected error for connection with no peer certificates")
		}
	})
}
