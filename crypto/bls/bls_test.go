package bls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/crypto"
	tmjson "github.com/tendermint/tendermint/libs/json"
)

func TestSignAndVerify(t *testing.T) {
	privKey := GenPrivKey()
	pubKey := privKey.PubKey()

	msg := []byte("round payload sign bytes")
	sig, err := privKey.Sign(msg)
	require.NoError(t, err)

	assert.True(t, pubKey.VerifySignature(msg, sig))

	// mutate the message, the signature, and the verifier
	assert.False(t, pubKey.VerifySignature([]byte("other message"), sig))

	badSig := append([]byte(nil), sig...)
	badSig[7] ^= 0xff
	assert.False(t, pubKey.VerifySignature(msg, badSig))

	otherPub := GenPrivKey().PubKey()
	assert.False(t, otherPub.VerifySignature(msg, sig))
}

func TestGenPrivKeyWithSeedIsDeterministic(t *testing.T) {
	a := GenPrivKeyWithSeed(42)
	b := GenPrivKeyWithSeed(42)
	c := GenPrivKeyWithSeed(43)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.True(t, a.PubKey().Equals(b.PubKey()))
}

func TestAddressSize(t *testing.T) {
	pubKey := GenPrivKeyWithSeed(1).PubKey()
	assert.Len(t, pubKey.Address(), crypto.AddressSize)
}

func TestKeyJSONRoundTrip(t *testing.T) {
	privKey := GenPrivKeyWithSeed(7)

	bz, err := tmjson.Marshal(crypto.PrivKey(privKey))
	require.NoError(t, err)

	var decoded crypto.PrivKey
	require.NoError(t, tmjson.Unmarshal(bz, &decoded))
	assert.True(t, privKey.Equals(decoded))

	pubBz, err := tmjson.Marshal(privKey.PubKey())
	require.NoError(t, err)

	var decodedPub crypto.PubKey
	require.NoError(t, tmjson.Unmarshal(pubBz, &decodedPub))
	assert.True(t, privKey.PubKey().Equals(decodedPub))
}
