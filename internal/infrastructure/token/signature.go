package token

import (
	"fmt"

	"wallet-bridge/internal/domain"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// EVMSignatureVerifier recovers the signer of an EIP-191 personal_sign
// message and compares it against the claimed address.
// Implements domain.SignatureVerifier.
type EVMSignatureVerifier struct{}

// NewEVMSignatureVerifier creates a new EVM signature verifier.
func NewEVMSignatureVerifier() *EVMSignatureVerifier {
	return &EVMSignatureVerifier{}
}

// RecoverSigner normalizes the address to its EIP-55 checksum form and
// verifies that the signature over message recovers to it.
func (v *EVMSignatureVerifier) RecoverSigner(address, message, signature string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: malformed address", domain.ErrInvalidSignature)
	}
	checksummed := common.HexToAddress(address).Hex()

	sig := common.FromHex(signature)
	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("%w: signature must be %d bytes", domain.ErrInvalidSignature, crypto.SignatureLength)
	}
	// Wallets emit V as 27/28; go-ethereum expects 0/1.
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}

	recovered := crypto.PubkeyToAddress(*pub).Hex()
	if recovered != checksummed {
		return "", domain.ErrInvalidSignature
	}
	return checksummed, nil
}

var _ domain.SignatureVerifier = (*EVMSignatureVerifier)(nil)
