package session

import (
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	dittoerrors "github.com/dittohq/ditto-go/internal/errors"
)

const (
	saltLength = 16

	// scrypt parameters (N, r, p) for deriving the file key
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// FileStore persists the token pair in a single file, encrypted at rest with
// XChaCha20-Poly1305. The key is derived from a caller-supplied secret via
// scrypt, with a per-file random salt. File layout: salt || nonce || box.
type FileStore struct {
	path   string
	secret []byte
	lock   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store writing to path. The secret protects the
// tokens at rest; the same secret must be supplied to read them back.
func NewFileStore(path string, secret []byte) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("[NewFileStore] path is required")
	}
	if len(secret) == 0 {
		return nil, errors.New("[NewFileStore] secret is required")
	}
	return &FileStore{path: path, secret: secret}, nil
}

func (fs *FileStore) Load() (*TokenPair, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	raw, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil, dittoerrors.ErrNoSession
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.Load] read credentials file")
	}

	if len(raw) < saltLength+chacha20poly1305.NonceSizeX {
		return nil, errors.New("[FileStore.Load] credentials file truncated")
	}

	salt := raw[:saltLength]
	nonce := raw[saltLength : saltLength+chacha20poly1305.NonceSizeX]
	box := raw[saltLength+chacha20poly1305.NonceSizeX:]

	aead, err := fs.aead(salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, box, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.Load] decrypt credentials")
	}

	var pair TokenPair
	if err := json.Unmarshal(plaintext, &pair); err != nil {
		return nil, errors.Wrap(err, "[FileStore.Load] unmarshal credentials")
	}
	return &pair, nil
}

func (fs *FileStore) Save(pair *TokenPair) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	plaintext, err := json.Marshal(pair)
	if err != nil {
		return errors.Wrap(err, "[FileStore.Save] marshal credentials")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return errors.Wrap(err, "[FileStore.Save] generate salt")
	}

	aead, err := fs.aead(salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrap(err, "[FileStore.Save] generate nonce")
	}

	raw := append(salt, nonce...)
	raw = aead.Seal(raw, nonce, plaintext, nil)

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.Save] create credentials directory")
	}
	if err := os.WriteFile(fs.path, raw, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.Save] write credentials file")
	}
	return nil
}

func (fs *FileStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] remove credentials file")
	}
	return nil
}

func (fs *FileStore) aead(salt []byte) (aeadCipher, error) {
	key, err := scrypt.Key(fs.secret, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore] derive key")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore] create cipher")
	}
	return aead, nil
}

type aeadCipher interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}
