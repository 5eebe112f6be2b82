package server

import (
	"crypto/x509"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"itams/pkg/config"
)

func TestBuildTLSConfig_SelfSignedOutsideProduction(t *testing.T) {
	tlsCfg, certFile, keyFile, err := BuildTLSConfig(config.TLSConfig{Enabled: true, AllowSelfSigned: true}, config.AppEnvDev)

	require.NoError(t, err)
	require.Empty(t, certFile)
	require.Empty(t, keyFile)
	require.Len(t, tlsCfg.Certificates, 1)

	leaf, err := x509.ParseCertificate(tlsCfg.Certificates[0].Certificate[0])
	require.NoError(t, err)
	require.Equal(t, "localhost", leaf.Subject.CommonName)
}

func TestBuildTLSConfig_NoSelfSignedInProduction(t *testing.T) {
	_, _, _, err := BuildTLSConfig(config.TLSConfig{Enabled: true, AllowSelfSigned: true}, config.AppEnvProd)
	require.ErrorIs(t, err, ErrNoCertificates)
}

func TestBuildTLSConfig_SelfSignedDisabled(t *testing.T) {
	_, _, _, err := BuildTLSConfig(config.TLSConfig{Enabled: true}, config.AppEnvDev)
	require.ErrorIs(t, err, ErrNoCertificates)
}

func TestBuildTLSConfig_BadInlinePEM(t *testing.T) {
	_, _, _, err := BuildTLSConfig(config.TLSConfig{CertPEM: "not a cert", KeyPEM: "not a key"}, config.AppEnvDev)
	require.Error(t, err)
}

func TestGenerateSelfSignedCert_Validity(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	cert, err := generateSelfSignedCert(now)
	require.NoError(t, err)

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	require.True(t, leaf.NotBefore.Before(now))
	require.Equal(t, now.Add(365*24*time.Hour), leaf.NotAfter.UTC())
	require.Contains(t, leaf.DNSNames, "localhost")
}
