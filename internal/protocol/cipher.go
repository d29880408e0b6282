package protocol

import (
	"bufio"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

// SharedSecretLen is the AES-128 key size negotiated during login.
const SharedSecretLen = 16

// cfb8 is cipher feedback mode with an 8-bit segment: every plaintext byte
// consumes one full block encryption of the shift register.
type cfb8 struct {
	block   cipher.Block
	sr      []byte // shift register, one block
	out     []byte
	decrypt bool
}

// NewCFB8Encrypter returns a stream that encrypts with block in CFB-8 mode.
func NewCFB8Encrypter(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, false)
}

// NewCFB8Decrypter returns a stream that decrypts with block in CFB-8 mode.
func NewCFB8Decrypter(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, true)
}

func newCFB8(block cipher.Block, iv []byte, decrypt bool) *cfb8 {
	bs := block.BlockSize()
	if len(iv) != bs {
		panic("protocol: CFB8 IV length must equal block size")
	}
	x := &cfb8{
		block:   block,
		sr:      make([]byte, bs),
		out:     make([]byte, bs),
		decrypt: decrypt,
	}
	copy(x.sr, iv)
	return x
}

func (x *cfb8) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("protocol: CFB8 output smaller than input")
	}
	last := len(x.sr) - 1
	for i, c := range src {
		x.block.Encrypt(x.out, x.sr)
		o := c ^ x.out[0]
		copy(x.sr, x.sr[1:])
		if x.decrypt {
			x.sr[last] = c
		} else {
			x.sr[last] = o
		}
		dst[i] = o
	}
}

// NewCipherPair builds the outbound and inbound AES/CFB-8 streams for a
// shared secret. The secret doubles as the IV.
func NewCipherPair(secret []byte) (enc, dec cipher.Stream, err error) {
	if len(secret) != SharedSecretLen {
		return nil, nil, fmt.Errorf("%w: shared secret is %d bytes", ErrCryptoNegotiation, len(secret))
	}
	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCryptoNegotiation, err)
	}
	return NewCFB8Encrypter(block, secret), NewCFB8Decrypter(block, secret), nil
}

// Stream wraps a raw connection and applies the optional stream cipher.
// Buffering sits below the cipher, so bytes are decrypted only when consumed.
//
// The inbound side must only be used by one reader and the outbound side by
// one writer at a time.
type Stream struct {
	r       *bufio.Reader
	w       io.Writer
	dec     cipher.Stream
	enc     cipher.Stream
	scratch []byte
}

func NewStream(rw io.ReadWriter) *Stream {
	return &Stream{
		r: bufio.NewReader(rw),
		w: rw,
	}
}

// EnableEncryption installs the cipher for both directions. It must be called
// while neither direction is in use, and only once per connection.
func (s *Stream) EnableEncryption(secret []byte) error {
	if s.enc != nil {
		return ErrEncryptionEnabled
	}
	enc, dec, err := NewCipherPair(secret)
	if err != nil {
		return err
	}
	s.enc, s.dec = enc, dec
	return nil
}

func (s *Stream) Encrypted() bool { return s.enc != nil }

func (s *Stream) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if n > 0 && s.dec != nil {
		s.dec.XORKeyStream(p[:n], p[:n])
	}
	return n, err
}

func (s *Stream) ReadByte() (byte, error) {
	c, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if s.dec != nil {
		one := [1]byte{c}
		s.dec.XORKeyStream(one[:], one[:])
		c = one[0]
	}
	return c, nil
}

// Write encrypts p and hands it to the connection in a single call.
func (s *Stream) Write(p []byte) (int, error) {
	if s.enc == nil {
		return s.w.Write(p)
	}
	if cap(s.scratch) < len(p) {
		s.scratch = make([]byte, len(p))
	}
	out := s.scratch[:len(p)]
	s.enc.XORKeyStream(out, p)
	return s.w.Write(out)
}
