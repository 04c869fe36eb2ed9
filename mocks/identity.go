package mocks

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/golang/protobuf/proto" //nolint:staticcheck
	"github.com/google/uuid"
	"github.com/hyperledger/fabric-protos-go/msp"
	"github.com/stretchr/testify/require"
)

const TestCreatorMSP = "platformMSP"

// Identity is a transaction creator: a serialized msp identity built around a
// freshly generated ECDSA certificate.
type Identity struct {
	Creator []byte
	Key     *ecdsa.PrivateKey
}

// NewAdminIdentity returns an identity whose certificate carries the "admin" OU.
func NewAdminIdentity(t testing.TB) *Identity {
	return newIdentity(t, "admin")
}

// NewUserIdentity returns an identity whose certificate carries the "client" OU.
func NewUserIdentity(t testing.TB) *Identity {
	return newIdentity(t, "client")
}

func newIdentity(t testing.TB, ou string) *Identity {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:         "user@" + TestCreatorMSP,
			OrganizationalUnit: []string{ou},
		},
		NotBefore: time.Now().Add(-time.Hour),
		NotAfter:  time.Now().Add(time.Hour),
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	creator, err := MarshalIdentity(TestCreatorMSP, der)
	require.NoError(t, err)

	return &Identity{Creator: creator, Key: key}
}

// MarshalIdentity wraps a DER certificate into a serialized msp identity.
func MarshalIdentity(creatorMSP string, creatorCert []byte) ([]byte, error) {
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: creatorCert})
	return proto.Marshal(&msp.SerializedIdentity{Mspid: creatorMSP, IdBytes: pemBytes})
}

// NewTxID returns a random hex transaction id.
func NewTxID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
