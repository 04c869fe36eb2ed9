package hlfcreator

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"testing"

	"github.com/anoideaopen/storagepay/core/types"
	"github.com/anoideaopen/storagepay/mocks"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

const userCert = `MIICSjCCAfGgAwIBAgIRAKeZTS2c/qkXBN0Vkh+0WYQwCgYIKoZIzj0EAwIwgYcx
CzAJBgNVBAYTAlVTMRMwEQYDVQQIEwpDYWxpZm9ybmlhMRYwFAYDVQQHEw1TYW4g
RnJhbmNpc2NvMSMwIQYDVQQKExphdG9teXplLnVhdC5kbHQuYXRvbXl6ZS5jaDEm
MCQGA1UEAxMdY2EuYXRvbXl6ZS51YXQuZGx0LmF0b215emUuY2gwHhcNMjAxMDEz
MDg1NjAwWhcNMzAxMDExMDg1NjAwWjB3MQswCQYDVQQGEwJVUzETMBEGA1UECBMK
Q2FsaWZvcm5pYTEWMBQGA1UEBxMNU2FuIEZyYW5jaXNjbzEPMA0GA1UECxMGY2xp
ZW50MSowKAYDVQQDDCFVc2VyMTBAYXRvbXl6ZS51YXQuZGx0LmF0b215emUuY2gw
WTATBgcqhkjOPQIBBggqhkjOPQMBBwNCAAR3V6z/nVq66HBDxFFN3/3rUaJLvHgW
FzoKaA/qZQyV919gdKr82LDy8N2kAYpAcP7dMyxMmmGOPbo53locYWIyo00wSzAO
BgNVHQ8BAf8EBAMCB4AwDAYDVR0TAQH/BAIwADArBgNVHSMEJDAigCBSv0ueZaB3
qWu/AwOtbOjaLd68woAqAklfKKhfu10K+DAKBggqhkjOPQQDAgNHADBEAiBFB6RK
O7huI84Dy3fXeA324ezuqpJJkfQOJWkbHjL+pQIgFKIqBJrDl37uXNd3eRGJTL+o
21ZL8pGXH8h0nHjOF9M=`

const adminCert = `MIICSDCCAe6gAwIBAgIQAJwYy5PJAYSC1i0UgVN5bjAKBggqhkjOPQQDAjCBhzEL
MAkGA1UEBhMCVVMxEzARBgNVBAgTCkNhbGlmb3JuaWExFjAUBgNVBAcTDVNhbiBG
cmFuY2lzY28xIzAhBgNVBAoTGmF0b215emUudWF0LmRsdC5hdG9teXplLmNoMSYw
JAYDVQQDEx1jYS5hdG9teXplLnVhdC5kbHQuYXRvbXl6ZS5jaDAeFw0yMDEwMTMw
ODU2MDBaFw0zMDEwMTEwODU2MDBaMHUxCzAJBgNVBAYTAlVTMRMwEQYDVQQIEwpD
YWxpZm9ybmlhMRYwFAYDVQQHEw1TYW4gRnJhbmNpc2NvMQ4wDAYDVQQLEwVhZG1p
bjEpMCcGA1UEAwwgQWRtaW5AYXRvbXl6ZS51YXQuZGx0LmF0b215emUuY2gwWTAT
BgcqhkjOPQIBBggqhkjOPQMBBwNCAAQGQX9IhgjCtd3mYZ9DUszmUgvubepVMPD5
FlwjCglB2SiWuE2rT/T5tHJsU/Y9ZXFtOOpy/g9tQ/0wxDWwpkbro00wSzAOBgNV
HQ8BAf8EBAMCB4AwDAYDVR0TAQH/BAIwADArBgNVHSMEJDAigCBSv0ueZaB3qWu/
AwOtbOjaLd68woAqAklfKKhfu10K+DAKBggqhkjOPQQDAgNIADBFAiEAoKRQLe4U
FfAAwQs3RCWpevOPq+J8T4KEsYvswKjzfJYCIAs2kOmN/AsVUF63unXJY0k9ktfD
fAaqNRaboY1Yg1iQ`

const mspID = "mspID"

func TestValidateAdminCreator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		creator []byte
		err     string
	}{
		{name: "nil creator", creator: nil, err: ErrEmptyCreator.Error()},
		{name: "empty creator", creator: []byte{}, err: ErrEmptyCreator.Error()},
		{name: "wrong creator", creator: []byte{12}, err: "failed to unmarshal SerializedIdentity"},
		{name: "admin creator", creator: buildCreator(t, adminCert)},
		{name: "client creator", creator: buildCreator(t, userCert), err: "incorrect sender's OU"},
		{name: "generated admin", creator: mocks.NewAdminIdentity(t).Creator},
		{name: "generated client", creator: mocks.NewUserIdentity(t).Creator, err: "incorrect sender's OU"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminCreator(tt.creator)
			if tt.err != "" {
				require.ErrorContains(t, err, tt.err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreatorAddress(t *testing.T) {
	t.Parallel()

	t.Run("address is sha3 of the public key", func(t *testing.T) {
		raw, err := base64.StdEncoding.DecodeString(adminCert)
		require.NoError(t, err)
		cert, err := x509.ParseCertificate(raw)
		require.NoError(t, err)
		pk, err := cert.PublicKey.(*ecdsa.PublicKey).ECDH()
		require.NoError(t, err)

		addr, err := CreatorAddress(buildCreator(t, adminCert))
		require.NoError(t, err)
		require.Equal(t, types.Address(sha3.Sum256(pk.Bytes())), addr)
	})

	t.Run("distinct certificates give distinct addresses", func(t *testing.T) {
		admin, err := CreatorAddress(buildCreator(t, adminCert))
		require.NoError(t, err)
		user, err := CreatorAddress(buildCreator(t, userCert))
		require.NoError(t, err)
		require.NotEqual(t, admin, user)

		again, err := CreatorAddress(buildCreator(t, userCert))
		require.NoError(t, err)
		require.Equal(t, user, again)
	})

	t.Run("generated identity", func(t *testing.T) {
		identity := mocks.NewUserIdentity(t)
		addr, err := CreatorAddress(identity.Creator)
		require.NoError(t, err)

		expected, err := PublicKeyAddress(&identity.Key.PublicKey)
		require.NoError(t, err)
		require.Equal(t, expected, addr)
	})

	t.Run("[negative] malformed creator", func(t *testing.T) {
		_, err := CreatorAddress(nil)
		require.ErrorIs(t, err, ErrEmptyCreator)

		_, err = CreatorAddress([]byte{12})
		require.Error(t, err)

		creator, err := mocks.MarshalIdentity(mspID, nil)
		require.NoError(t, err)
		_, err = CreatorAddress(creator)
		require.ErrorIs(t, err, ErrDecodeSerializedIdentity)
	})

	t.Run("[negative] not an ECDSA key", func(t *testing.T) {
		_, err := PublicKeyAddress("key")
		require.ErrorIs(t, err, ErrNotECDSAKey)
	})
}

func buildCreator(t *testing.T, creatorCert string) []byte {
	cert, err := base64.StdEncoding.DecodeString(creatorCert)
	require.NoError(t, err)

	creator, err := mocks.MarshalIdentity(mspID, cert)
	require.NoError(t, err)
	return creator
}
