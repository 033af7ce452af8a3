package commands

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/crypto"
	"courier/internal/domain"
	"courier/internal/protocol/container"
	"courier/internal/relay/relaytest"
)

const testPassphrase = "Corr3ct-Horse-Battery"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeysLifecycle(t *testing.T) {
	home := t.TempDir()

	_, err := run(t, "--home", home, "keys", "new")
	require.ErrorIs(t, err, errNeedPassphrase)

	out, err := run(t, "--home", home, "-p", testPassphrase, "keys", "new")
	require.NoError(t, err)
	assert.Contains(t, out, "Identity created.")

	_, err = run(t, "--home", home, "-p", testPassphrase, "keys", "new")
	require.Error(t, err, "second keys new must need --force")

	imported, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	_, err = run(t, "--home", home, "-p", testPassphrase, "keys", "import", "--force", imported.PrivateHex())
	require.NoError(t, err)

	out, err = run(t, "--home", home, "-p", testPassphrase, "keys", "show")
	require.NoError(t, err)
	assert.Contains(t, out, imported.PublicKey().Hex())
	assert.Contains(t, out, crypto.Fingerprint(imported.PublicKey()).String())
}

func TestSendGetInbox(t *testing.T) {
	srv := relaytest.Start(t)
	alice, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	bob, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	aliceHome, bobHome := t.TempDir(), t.TempDir()

	out, err := run(t, "--home", aliceHome, "--addr", srv.Addr(), "--key", alice.PrivateHex(),
		"send", bob.PublicKey().Hex(), "hello", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "PUB\n"+alice.PublicKey().Hex())
	assert.NotContains(t, out, "PRIV")
	assert.Contains(t, out, "sent")

	out, err = run(t, "--home", bobHome, "--addr", srv.Addr(), "--key", bob.PrivateHex(), "--show-private", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "PRIV\n"+bob.PrivateHex())
	assert.Contains(t, out, "RECEIVED FROM\n"+alice.PublicKey().Hex())
	assert.Contains(t, out, `"hello bob"`)

	out, err = run(t, "--home", bobHome, "--addr", srv.Addr(), "--key", bob.PrivateHex(), "get")
	require.NoError(t, err)
	assert.Contains(t, out, "NO DATA")

	out, err = run(t, "--home", bobHome, "inbox")
	require.NoError(t, err)
	assert.Contains(t, out, "<- "+crypto.Fingerprint(alice.PublicKey()).String())

	out, err = run(t, "--home", aliceHome, "inbox", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "-> "+crypto.Fingerprint(bob.PublicKey()).String())
}

func TestSend_BadRecipient(t *testing.T) {
	srv := relaytest.Start(t)
	_, err := run(t, "--home", t.TempDir(), "--addr", srv.Addr(), "--ephemeral", "send", "abcd", "x")
	assert.ErrorIs(t, err, domain.ErrEncoding)
}

func TestConfigFileAndFlagOverride(t *testing.T) {
	srv := relaytest.Start(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "courier.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: 127.0.0.1:1\nno_history: true\n"), 0o600))

	// The file's address is unreachable; the flag wins.
	out, err := run(t, "--config", path, "--home", dir, "--addr", srv.Addr(), "--ephemeral", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "NO DATA")

	_, err = run(t, "--config", path, "--home", dir, "inbox")
	assert.Error(t, err, "history is disabled by the config file")
}

func TestInspect(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	enc := &container.Encoder{Signer: kp}
	b, err := enc.Encode(domain.Nonce{1, 2, 3}, kp.PublicKey().Hex(), "hello")
	require.NoError(t, err)

	out, err := run(t, "--home", t.TempDir(), "inspect", hex.EncodeToString(b))
	require.NoError(t, err)
	assert.Contains(t, out, "total_size  174")
	assert.Contains(t, out, "verify      OK")

	// With the opcode byte in front.
	out, err = run(t, "--home", t.TempDir(), "inspect", "06"+hex.EncodeToString(b))
	require.NoError(t, err)
	assert.Contains(t, out, `data        "hello"`)

	b[len(b)-1] ^= 0xFF
	_, err = run(t, "--home", t.TempDir(), "inspect", hex.EncodeToString(b))
	assert.ErrorIs(t, err, errBadSignature)
}
