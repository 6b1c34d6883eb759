package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSelfSignedCertRoundTrip(t *testing.T) {
	dir := t.TempDir()

	err := GenerateSelfSignedCert([]string{"localhost", "127.0.0.1"}, dir, time.Hour)
	require.NoError(t, err)

	for _, name := range []string{CAFile, CAKeyFile, ServerFile, ServerKeyFile} {
		info, statErr := os.Stat(filepath.Join(dir, name))
		require.NoError(t, statErr, name)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), name)
	}

	cfg, err := ServerTLSConfig(filepath.Join(dir, ServerFile), filepath.Join(dir, ServerKeyFile))
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	require.Len(t, cfg.Certificates, 1)

	leaf, err := x509.ParseCertificate(cfg.Certificates[0].Certificate[0])
	require.NoError(t, err)
	assert.Contains(t, leaf.DNSNames, "localhost")
	require.Len(t, leaf.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", leaf.IPAddresses[0].String())

	clientCfg, err := ClientTLSConfig(filepath.Join(dir, CAFile))
	require.NoError(t, err)
	_, err = leaf.Verify(x509.VerifyOptions{DNSName: "localhost", Roots: clientCfg.RootCAs})
	assert.NoError(t, err)
	_, err = leaf.Verify(x509.VerifyOptions{DNSName: "example.com", Roots: clientCfg.RootCAs})
	assert.Error(t, err, "certificate must not cover unlisted hosts")
}

func TestGenerateSelfSignedCertRequiresHost(t *testing.T) {
	err := GenerateSelfSignedCert(nil, t.TempDir(), time.Hour)
	assert.Error(t, err)
}

func TestServerTLSConfigMissingFiles(t *testing.T) {
	_, err := ServerTLSConfig("/nonexistent/cert.pem", "/nonexistent/key.pem")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load server key pair")
}

func TestClientTLSConfigRejectsNonPEM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

	_, err := ClientTLSConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no certificates")
}
