// Package bls implements agent keys as BLS signatures on the bn256 pairing
// curve, behind tendermint's crypto.PrivKey/PubKey interfaces.
package bls

import (
	"bytes"
	"encoding/binary"

	"github.com/tendermint/tendermint/crypto"
	"github.com/tendermint/tendermint/crypto/tmhash"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/pairing/bn256"
	"go.dedis.ch/kyber/v3/sign/bls"
	"go.dedis.ch/kyber/v3/util/random"
	"go.dedis.ch/kyber/v3/xof/blake2xb"
)

const (
	PrivKeyName = "betting/PrivKeyBLS"
	PubKeyName  = "betting/PubKeyBLS"

	KeyType = "bls.bn256"
)

var suite = bn256.NewSuite()

func init() {
	tmjson.RegisterType(PubKey{}, PubKeyName)
	tmjson.RegisterType(PrivKey{}, PrivKeyName)
}

// GenPrivKey generates a key from a cryptographically secure random stream.
func GenPrivKey() PrivKey {
	scalar, _ := bls.NewKeyPair(suite, random.New())
	return privKeyFromScalar(scalar)
}

// GenPrivKeyWithSeed generates a key deterministically from a seed. Only for
// tests and reproducible local fleets.
func GenPrivKeyWithSeed(seed int64) PrivKey {
	var seedBytes [8]byte
	binary.BigEndian.PutUint64(seedBytes[:], uint64(seed))
	scalar, _ := bls.NewKeyPair(suite, blake2xb.New(seedBytes[:]))
	return privKeyFromScalar(scalar)
}

func privKeyFromScalar(scalar kyber.Scalar) PrivKey {
	bz, err := scalar.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return PrivKey(bz)
}

// ----- PrivKey -----

type PrivKey []byte

var _ crypto.PrivKey = PrivKey{}

func (privKey PrivKey) Bytes() []byte {
	return []byte(privKey)
}

func (privKey PrivKey) Sign(msg []byte) ([]byte, error) {
	scalar := suite.G2().Scalar()
	if err := scalar.UnmarshalBinary(privKey); err != nil {
		return nil, err
	}
	return bls.Sign(suite, scalar, msg)
}

func (privKey PrivKey) PubKey() crypto.PubKey {
	scalar := suite.G2().Scalar()
	if err := scalar.UnmarshalBinary(privKey); err != nil {
		panic(err)
	}
	point := suite.G2().Point().Mul(scalar, nil)
	bz, err := point.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return PubKey(bz)
}

func (privKey PrivKey) Equals(other crypto.PrivKey) bool {
	if otherBLS, ok := other.(PrivKey); ok {
		return bytes.Equal(privKey, otherBLS)
	}
	return false
}

func (privKey PrivKey) Type() string {
	return KeyType
}

// ----- PubKey -----

type PubKey []byte

var _ crypto.PubKey = PubKey{}

// Address is the first 20 bytes of the sha256 of the raw public key.
func (pubKey PubKey) Address() crypto.Address {
	return crypto.Address(tmhash.SumTruncated(pubKey))
}

func (pubKey PubKey) Bytes() []byte {
	return []byte(pubKey)
}

func (pubKey PubKey) VerifySignature(msg []byte, sig []byte) bool {
	point := suite.G2().Point()
	if err := point.UnmarshalBinary(pubKey); err != nil {
		return false
	}
	return bls.Verify(suite, point, msg, sig) == nil
}

func (pubKey PubKey) Equals(other crypto.PubKey) bool {
	if otherBLS, ok := other.(PubKey); ok {
		return bytes.Equal(pubKey, otherBLS)
	}
	return false
}

func (pubKey PubKey) Type() string {
	return KeyType
}
