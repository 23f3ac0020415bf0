// Package secure is the credential tier: one XChaCha20-Poly1305 sealed file
// per key. File names are key digests and the key is bound as associated
// data, so a renamed or swapped file fails to open.
package secure

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/0xLeif/AppState-sub000/internal/util"
	pr "github.com/0xLeif/AppState-sub000/provider"
)

// KeySize is the required master key length.
const KeySize = chacha20poly1305.KeySize

var (
	ErrKeySize = fmt.Errorf("secure provider: key must be %d bytes", KeySize)
	ErrOpen    = errors.New("secure provider: cannot open sealed value")
)

type Provider struct {
	dir  string
	aead cipher.AEAD
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	Dir string // required
	Key []byte // KeySize bytes; see KeyFromPassphrase and LoadOrCreateKey
}

func New(cfg Config) (*Provider, error) {
	if cfg.Dir == "" {
		return nil, errors.New("secure provider: empty dir")
	}
	if len(cfg.Key) != KeySize {
		return nil, ErrKeySize
	}
	aead, err := chacha20poly1305.NewX(cfg.Key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, err
	}
	return &Provider{dir: cfg.Dir, aead: aead}, nil
}

// KeyFromPassphrase derives a master key with Argon2id.
func KeyFromPassphrase(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// LoadOrCreateKey reads a raw key file, creating it with random bytes and
// mode 0600 when it does not exist.
func LoadOrCreateKey(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		if len(b) != KeySize {
			return nil, ErrKeySize
		}
		return b, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}

func (p *Provider) path(key string) string {
	return filepath.Join(p.dir, util.Digest(key)+".sealed")
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(p.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	ns := p.aead.NonceSize()
	if len(raw) < ns+p.aead.Overhead() {
		return nil, false, ErrOpen
	}
	out, err := p.aead.Open(nil, raw[:ns], raw[ns:], []byte(key))
	if err != nil {
		return nil, false, ErrOpen
	}
	return out, true, nil
}

// Set seals value under a fresh random nonce: nonce(24) | ciphertext.
func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64) (bool, error) {
	nonce := make([]byte, p.aead.NonceSize(), p.aead.NonceSize()+len(value)+p.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return false, err
	}
	sealed := p.aead.Seal(nonce, nonce, value, []byte(key))

	if err := writeAtomic(p.path(key), sealed); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	err := os.Remove(p.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (p *Provider) Close(context.Context) error { return nil }

// writeAtomic writes through a private temp file and rename; concurrent
// writers of one key never share a temp file.
func writeAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(0o600); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
