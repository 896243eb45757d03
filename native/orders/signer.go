package orders

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	coreerrors "weidex/core/errors"
)

// SignatureLength is the size of an [R || S || V] signature.
const SignatureLength = 65

// Verifier recovers the identity that signed a digest.
type Verifier interface {
	Recover(digest common.Hash, sig []byte) (common.Address, error)
}

// ECDSAVerifier recovers secp256k1 signatures.
type ECDSAVerifier struct{}

// Recover implements Verifier.
func (ECDSAVerifier) Recover(digest common.Hash, sig []byte) (common.Address, error) {
	return RecoverSigner(digest, sig)
}

// Sign signs digest with key and returns [R || S || V] with V in {27, 28}.
func Sign(digest common.Hash, key *ecdsa.PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("orders: nil signing key")
	}
	sig, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}

// SignOrder signs the prefixed hash of o.
func SignOrder(o *Order, key *ecdsa.PrivateKey) ([]byte, error) {
	digest, err := PrefixedHash(o)
	if err != nil {
		return nil, err
	}
	return Sign(digest, key)
}

// RecoverSigner returns the address whose key produced sig over digest. V may
// be given as 0/1 or 27/28.
func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", coreerrors.ErrInvalidSignature, SignatureLength, len(sig))
	}
	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	switch normalized[64] {
	case 0, 1:
	case 27, 28:
		normalized[64] -= 27
	default:
		return common.Address{}, fmt.Errorf("%w: invalid recovery id %d", coreerrors.ErrInvalidSignature, sig[64])
	}
	pub, err := crypto.SigToPub(digest.Bytes(), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", coreerrors.ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
