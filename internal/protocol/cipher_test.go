package protocol

import (
	"bytes"
	"crypto/aes"
	"encoding/hex"
	"errors"
	"io"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// NIST SP 800-38A, F.3.7 / F.3.8 (CFB8-AES128).
func TestCFB8KnownAnswer(t *testing.T) {
	key := mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c")
	iv := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	plain := mustHex(t, "6bc1bee22e409f96e93d7e117393172aae2d")
	want := mustHex(t, "3b79424c9c0dd436bace9e0ed4586a4f32b9")

	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]byte, len(plain))
	NewCFB8Encrypter(block, iv).XORKeyStream(got, plain)
	if !bytes.Equal(got, want) {
		t.Fatalf("加密 = %x, 期望 %x", got, want)
	}

	back := make([]byte, len(got))
	NewCFB8Decrypter(block, iv).XORKeyStream(back, got)
	if !bytes.Equal(back, plain) {
		t.Errorf("解密 = %x, 期望 %x", back, plain)
	}
}

func TestCFB8Incremental(t *testing.T) {
	secret := bytes.Repeat([]byte{0x42}, SharedSecretLen)
	plain := []byte("the quick brown fox jumps over the lazy dog")

	enc1, _, err := NewCipherPair(secret)
	if err != nil {
		t.Fatal(err)
	}
	whole := make([]byte, len(plain))
	enc1.XORKeyStream(whole, plain)

	enc2, _, _ := NewCipherPair(secret)
	pieces := make([]byte, 0, len(plain))
	for i := 0; i < len(plain); i += 7 {
		end := min(i+7, len(plain))
		out := make([]byte, end-i)
		enc2.XORKeyStream(out, plain[i:end])
		pieces = append(pieces, out...)
	}
	if !bytes.Equal(whole, pieces) {
		t.Error("分段加密与整体加密结果不一致")
	}
}

func TestNewCipherPairRejectsBadSecret(t *testing.T) {
	for _, n := range []int{0, 8, 15, 17, 32} {
		if _, _, err := NewCipherPair(make([]byte, n)); !errors.Is(err, ErrCryptoNegotiation) {
			t.Errorf("密钥长度 %d: error = %v, 期望 ErrCryptoNegotiation", n, err)
		}
	}
}

// pipeRW joins a reader and a writer into one io.ReadWriter.
type pipeRW struct {
	io.Reader
	io.Writer
}

func TestStreamEncryptedFrames(t *testing.T) {
	secret := []byte("0123456789abcdef")
	var wire bytes.Buffer

	sender := NewStream(pipeRW{Reader: bytes.NewReader(nil), Writer: &wire})
	receiver := NewStream(pipeRW{Reader: &wire, Writer: io.Discard})
	if err := sender.EnableEncryption(secret); err != nil {
		t.Fatal(err)
	}
	if err := receiver.EnableEncryption(secret); err != nil {
		t.Fatal(err)
	}
	if !sender.Encrypted() {
		t.Fatal("Encrypted() = false")
	}

	fw := NewFrameWriter(sender, FrameConfig{})
	payloads := [][]byte{{0x1F, 0x01}, bytes.Repeat([]byte{0xAB}, 1000), {0x00}}
	for _, p := range payloads {
		if _, err := fw.WriteFrame(p, 256); err != nil {
			t.Fatal(err)
		}
	}
	if bytes.Contains(wire.Bytes(), []byte{0xAB, 0xAB, 0xAB, 0xAB}) {
		t.Error("线上数据看起来未加密")
	}

	fr := NewFrameReader(receiver, FrameConfig{})
	for i, p := range payloads {
		buf, _, err := fr.ReadFrame(256)
		if err != nil {
			t.Fatalf("第 %d 帧: %v", i, err)
		}
		if !bytes.Equal(buf.Bytes(), p) {
			t.Errorf("第 %d 帧解密后不匹配", i)
		}
	}
}

func TestStreamPlaintextBeforeEncryption(t *testing.T) {
	// Bytes already buffered before encryption was enabled are still
	// decrypted, since the cipher applies on consumption.
	secret := []byte("fedcba9876543210")
	enc, _, err := NewCipherPair(secret)
	if err != nil {
		t.Fatal(err)
	}
	cipherText := make([]byte, 3)
	enc.XORKeyStream(cipherText, []byte{0x01, 0x02, 0x03})

	wire := append([]byte{0x7F}, cipherText...)
	s := NewStream(pipeRW{Reader: bytes.NewReader(wire), Writer: io.Discard})

	c, err := s.ReadByte()
	if err != nil || c != 0x7F {
		t.Fatalf("明文字节 = %#x, %v", c, err)
	}
	if err := s.EnableEncryption(secret); err != nil {
		t.Fatal(err)
	}
	rest := make([]byte, 3)
	if _, err := io.ReadFull(s, rest); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rest, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("解密 = %x, 期望 010203", rest)
	}
}

func TestStreamEnableTwice(t *testing.T) {
	s := NewStream(pipeRW{Reader: bytes.NewReader(nil), Writer: io.Discard})
	secret := make([]byte, SharedSecretLen)
	if err := s.EnableEncryption(secret); err != nil {
		t.Fatal(err)
	}
	if err := s.EnableEncryption(secret); !errors.Is(err, ErrEncryptionEnabled) {
		t.Errorf("第二次启用 error = %v, 期望 ErrEncryptionEnabled", err)
	}
}
