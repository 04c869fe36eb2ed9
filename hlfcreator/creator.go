// Package hlfcreator derives caller identities from the transaction creator
// serialized by the Fabric MSP.
package hlfcreator

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/anoideaopen/storagepay/core/types"
	pb "github.com/golang/protobuf/proto" //nolint:staticcheck
	"github.com/hyperledger/fabric-protos-go/msp"
	"golang.org/x/crypto/sha3"
)

const (
	// adminOU is the required OrganizationalUnit in the x509 certificate for Hyperledger admin.
	adminOU = "admin"
)

var (
	ErrEmptyCreator             = errors.New("creator is nil or empty")
	ErrDecodeSerializedIdentity = errors.New("failed to validate block after decode pem 'SerializedIdentity.IdBytes', block can't be nil or empty")
	ErrNotECDSAKey              = errors.New("creator public key is not ECDSA")
)

// ValidateAdminCreator checks if the creator of the transaction is an admin.
func ValidateAdminCreator(creator []byte) error {
	cert, err := creatorCert(creator)
	if err != nil {
		return err
	}

	for _, ou := range cert.Subject.OrganizationalUnit {
		if strings.ToLower(ou) == adminOU {
			return nil
		}
	}

	return fmt.Errorf("incorrect sender's OU, expected '%s' but found '%s'",
		adminOU,
		strings.Join(cert.Subject.OrganizationalUnit, ","),
	)
}

// CreatorAddress returns the account address of the transaction creator:
// sha3-256 of the uncompressed ECDSA public key of its certificate.
func CreatorAddress(creator []byte) (types.Address, error) {
	cert, err := creatorCert(creator)
	if err != nil {
		return types.Address{}, err
	}

	return PublicKeyAddress(cert.PublicKey)
}

// PublicKeyAddress hashes an ECDSA public key into an account address.
func PublicKeyAddress(pub any) (types.Address, error) {
	pk, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return types.Address{}, ErrNotECDSAKey
	}

	ecdhPk, err := pk.ECDH()
	if err != nil {
		return types.Address{}, fmt.Errorf("public key transition failed: %w", err)
	}

	return sha3.Sum256(ecdhPk.Bytes()), nil
}

func creatorCert(creator []byte) (*x509.Certificate, error) {
	if len(creator) == 0 {
		return nil, ErrEmptyCreator
	}

	var identity msp.SerializedIdentity
	if err := pb.Unmarshal(creator, &identity); err != nil {
		return nil, fmt.Errorf("failed to unmarshal SerializedIdentity: %w", err)
	}

	b, _ := pem.Decode(identity.GetIdBytes())
	if b == nil || len(b.Bytes) == 0 {
		return nil, ErrDecodeSerializedIdentity
	}

	cert, err := x509.ParseCertificate(b.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse x509 certificate: %w", err)
	}

	return cert, nil
}
