package tlstest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Pair is a self-signed server certificate written to disk, plus a pool
// that trusts it.
type Pair struct {
	CertFile string
	KeyFile  string
	Pool     *x509.CertPool
}

// LocalServer issues a certificate valid for localhost and the loopback
// addresses, written under t.TempDir().
func LocalServer(t testing.TB) Pair {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err, "generate key")
	now := time.Now()
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(now.UnixNano()),
		Subject:               pkix.Name{CommonName: "fixdecode-test"},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err, "create cert")
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err, "parse cert")
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err, "marshal key")

	dir := t.TempDir()
	out := Pair{
		CertFile: filepath.Join(dir, "server.crt"),
		KeyFile:  filepath.Join(dir, "server.key"),
		Pool:     x509.NewCertPool(),
	}
	require.NoError(t, writePEM(out.CertFile, "CERTIFICATE", der, 0o644), "write cert")
	require.NoError(t, writePEM(out.KeyFile, "EC PRIVATE KEY", keyDER, 0o600), "write key")
	out.Pool.AddCert(cert)
	return out
}

func writePEM(path string, blockType string, der []byte, perm os.FileMode) error {
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	return os.WriteFile(path, data, perm)
}
