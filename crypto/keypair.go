package crypto

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/evilsocket/islazy/fs"
	"github.com/evilsocket/islazy/log"
)

type KeyPair struct {
	Path        string
	PrivatePath string
	Private     *ecdsa.PrivateKey
	Public      *ecdsa.PublicKey
	// EIP-55 checksummed
	Address string
}

func PrivatePath(keysPath string) string {
	return path.Join(keysPath, "id_secp256k1")
}

func KeysExist(keysPath string) bool {
	return fs.Exists(keysPath) && fs.Exists(PrivatePath(keysPath))
}

func FromPrivate(key *ecdsa.PrivateKey) *KeyPair {
	pair := &KeyPair{Private: key}
	pair.setupPublic()
	return pair
}

func Generate() (*KeyPair, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("could not generate private key: %v", err)
	}
	return FromPrivate(key), nil
}

func Load(keysPath string) (pair *KeyPair, err error) {
	if keysPath, err = fs.Expand(keysPath); err != nil {
		return nil, err
	}
	pair = &KeyPair{
		Path:        keysPath,
		PrivatePath: PrivatePath(keysPath),
	}
	return pair, pair.Load()
}

func LoadOrCreate(keysPath string) (pair *KeyPair, err error) {
	if keysPath, err = fs.Expand(keysPath); err != nil {
		return nil, err
	}

	pair = &KeyPair{
		Path:        keysPath,
		PrivatePath: PrivatePath(keysPath),
	}

	if !fs.Exists(pair.PrivatePath) {
		if !fs.Exists(keysPath) {
			log.Debug("creating %s", keysPath)
			if err := os.MkdirAll(keysPath, 0700); err != nil {
				return nil, fmt.Errorf("could not create %s: %v", keysPath, err)
			}
		}
		log.Info("%s not found, generating keypair ...", pair.PrivatePath)

		if pair.Private, err = ethcrypto.GenerateKey(); err != nil {
			return nil, fmt.Errorf("could not generate private key: %v", err)
		}

		if err = pair.Save(); err != nil {
			return nil, fmt.Errorf("could not save keypair: %v", err)
		}
	} else if err = pair.Load(); err != nil {
		return nil, fmt.Errorf("could not load keypair: %v", err)
	}

	return pair, nil
}

func (pair *KeyPair) setupPublic() {
	pair.Public = &pair.Private.PublicKey
	pair.Address = ethcrypto.PubkeyToAddress(*pair.Public).Hex()
}

func (pair *KeyPair) Save() (err error) {
	if err = ethcrypto.SaveECDSA(pair.PrivatePath, pair.Private); err != nil {
		return
	}
	pair.setupPublic()
	log.Debug("%s created for %s", pair.PrivatePath, pair.Address)
	return nil
}

func (pair *KeyPair) Load() (err error) {
	log.Debug("reading %s ...", pair.PrivatePath)
	if pair.Private, err = ethcrypto.LoadECDSA(pair.PrivatePath); err != nil {
		return fmt.Errorf("failed parsing %s: %v", pair.PrivatePath, err)
	}
	pair.setupPublic()
	return nil
}

// SignMessage returns the 0x prefixed personal_sign signature of message,
// with V in the 27/28 form wallets use.
func (pair *KeyPair) SignMessage(message string) (string, error) {
	sig, err := ethcrypto.Sign(TextHash([]byte(message)), pair.Private)
	if err != nil {
		return "", err
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}
