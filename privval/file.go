package privval

import (
	"fmt"
	"io/ioutil"

	"github.com/tendermint/tendermint/crypto"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmos "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/libs/tempfile"

	"github.com/mahabubAlahi/final-assignment-service/crypto/bls"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

//-------------------------------------------------------------------------------

// FilePVKey stores the immutable part of PrivAgent.
type FilePVKey struct {
	Address types.Address  `json:"address"`
	PubKey  crypto.PubKey  `json:"pub_key"`
	PrivKey crypto.PrivKey `json:"priv_key"`

	filePath string
}

// Save persists the FilePVKey to its filePath.
func (pvKey FilePVKey) Save() {
	outFile := pvKey.filePath
	if outFile == "" {
		panic("cannot save PrivAgent key: filePath not set")
	}

	jsonBytes, err := tmjson.MarshalIndent(pvKey, "", "  ")
	if err != nil {
		panic(err)
	}
	if err := tempfile.WriteFileAtomic(outFile, jsonBytes, 0600); err != nil {
		panic(err)
	}
}

//-------------------------------------------------------------------------------

// FilePV implements types.PrivAgent using a key persisted to disk.
type FilePV struct {
	Key FilePVKey
}

var _ types.PrivAgent = (*FilePV)(nil)

// NewFilePV wraps the given key and path.
func NewFilePV(privKey crypto.PrivKey, keyFilePath string) *FilePV {
	return &FilePV{
		Key: FilePVKey{
			Address:  privKey.PubKey().Address(),
			PubKey:   privKey.PubKey(),
			PrivKey:  privKey,
			filePath: keyFilePath,
		},
	}
}

// GenFilePV generates a new agent key with a random BLS private key and sets
// the file path, but does not call Save().
func GenFilePV(keyFilePath string) *FilePV {
	return NewFilePV(bls.GenPrivKey(), keyFilePath)
}

// GenFilePVWithSeed generates the agent key deterministically from a seed,
// for reproducible local fleets.
func GenFilePVWithSeed(keyFilePath string, seed int64) *FilePV {
	return NewFilePV(bls.GenPrivKeyWithSeed(seed), keyFilePath)
}

// LoadFilePV loads a FilePV from the file path. The program exits if the
// file does not exist or is corrupt.
func LoadFilePV(keyFilePath string) *FilePV {
	keyJSONBytes, err := ioutil.ReadFile(keyFilePath)
	if err != nil {
		tmos.Exit(err.Error())
	}
	pvKey := FilePVKey{}
	if err := tmjson.Unmarshal(keyJSONBytes, &pvKey); err != nil {
		tmos.Exit(fmt.Sprintf("Error reading PrivAgent key from %v: %v\n", keyFilePath, err))
	}

	// overwrite pubkey and address for convenience
	pvKey.PubKey = pvKey.PrivKey.PubKey()
	pvKey.Address = pvKey.PubKey.Address()
	pvKey.filePath = keyFilePath

	return &FilePV{Key: pvKey}
}

// LoadOrGenFilePV loads the key if the file exists, or generates and saves a
// new one.
func LoadOrGenFilePV(keyFilePath string) *FilePV {
	if tmos.FileExists(keyFilePath) {
		return LoadFilePV(keyFilePath)
	}
	pv := GenFilePV(keyFilePath)
	pv.Save()
	return pv
}

// GetPubKey returns the public key of the agent.
func (pv *FilePV) GetPubKey() (crypto.PubKey, error) {
	return pv.Key.PubKey, nil
}

// GetAddress returns the address of the agent.
func (pv *FilePV) GetAddress() types.Address {
	return pv.Key.Address
}

// SignPayload signs the canonical sign bytes of the payload and writes the
// signature back onto it.
func (pv *FilePV) SignPayload(chainID string, payload types.Payload) error {
	sig, err := pv.Key.PrivKey.Sign(payload.SignBytes(chainID))
	if err != nil {
		return err
	}
	payload.SetSignature(sig)
	return nil
}

// Save persists the FilePV to disk.
func (pv *FilePV) Save() {
	pv.Key.Save()
}

func (pv *FilePV) String() string {
	return fmt.Sprintf("PrivAgent{%v}", pv.GetAddress())
}
