package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const SignatureSize = 65

var (
	ErrInvalidAddress   = errors.New("invalid address")
	ErrInvalidSignature = errors.New("invalid signature")
)

// TextHash is the EIP-191 personal_sign digest of data.
func TextHash(data []byte) []byte {
	return accounts.TextHash(data)
}

// IsAddress returns true if s is a 0x prefixed, 20 bytes hex address.
func IsAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// NormalizeAddress lowercases and trims an address.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func decodeSignature(signature string) ([]byte, error) {
	sig, err := hexutil.Decode(strings.TrimSpace(signature))
	if err != nil {
		return nil, fmt.Errorf("%v: %v", ErrInvalidSignature, err)
	} else if len(sig) != SignatureSize {
		return nil, fmt.Errorf("%v: expected %d bytes, got %d", ErrInvalidSignature, SignatureSize, len(sig))
	}

	// wallets produce V as 27/28, recovery wants 0/1
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return nil, fmt.Errorf("%v: unexpected recovery id %d", ErrInvalidSignature, sig[64])
	}

	return sig, nil
}

// RecoverAddress returns the lowercased address of the key that produced the
// personal_sign signature of message.
func RecoverAddress(message string, signature string) (string, error) {
	sig, err := decodeSignature(signature)
	if err != nil {
		return "", err
	}

	pub, err := ethcrypto.SigToPub(TextHash([]byte(message)), sig)
	if err != nil {
		return "", fmt.Errorf("%v: %v", ErrInvalidSignature, err)
	}

	return NormalizeAddress(ethcrypto.PubkeyToAddress(*pub).Hex()), nil
}

// VerifyMessage checks that signature was produced by the key controlling
// address over exactly message. A mismatch is (false, nil), malformed input
// is reported as an error.
func VerifyMessage(address, message, signature string) (bool, error) {
	if !IsAddress(strings.TrimSpace(address)) {
		return false, fmt.Errorf("%v: %s", ErrInvalidAddress, address)
	}

	signer, err := RecoverAddress(message, signature)
	if err != nil {
		return false, err
	}

	return signer == NormalizeAddress(address), nil
}
