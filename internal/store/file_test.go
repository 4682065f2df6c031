package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obudget/obudget/internal/cipher"
	"github.com/obudget/obudget/internal/model"
)

func writePlain(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "12345678.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEncryptDecryptFileIdempotent(t *testing.T) {
	plain := strings.Join(sampleUserFile, "\n") + "\n"
	path := writePlain(t, plain)

	n, err := EncryptFile(path, cipher.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, len(sampleUserFile), n)

	enc, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, plain, string(enc))
	assert.Equal(t, strings.Count(plain, "*"), strings.Count(string(enc), "*"), "delimiters are never shifted")

	_, err = DecryptFile(path, cipher.DefaultKey)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, plain, string(got))
}

func TestRekeyFile(t *testing.T) {
	path := writePlain(t, "C*Courant\n")
	_, err := EncryptFile(path, 4)
	require.NoError(t, err)

	_, err = RekeyFile(path, 4, 11)
	require.NoError(t, err)

	accts, err := LoadAccounts(path, 11, ScanPrefixRun)
	require.NoError(t, err)
	assert.Equal(t, []string{"Courant"}, accountNames(accts))
}

func TestRewriteFileNormalisesCRLF(t *testing.T) {
	path := writePlain(t, "C*Courant\r\nC*PEL\r\n")
	_, err := EncryptFile(path, 2)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "\r")

	accts, err := LoadAccounts(path, 2, ScanPrefixRun)
	require.NoError(t, err)
	assert.Equal(t, []string{"Courant", "PEL"}, accountNames(accts))
}

func TestRewriteFileLeavesFileOnError(t *testing.T) {
	path := writePlain(t, "C*Courant\n")
	_, err := DecryptFile(path, 'C'+1)
	require.Error(t, err)
	assert.ErrorIs(t, err, cipher.ErrOutOfRange)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "C*Courant\n", string(got))
}

func TestRewriteFileMissing(t *testing.T) {
	_, err := EncryptFile(filepath.Join(t.TempDir(), "absent.txt"), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.txt")

	_, err := LoadIdentities(path, 0)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = LoadOperations(path, 0, FlagNonEmpty)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = LoadBudgets(path, 0)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = LoadUserFile(path, 0, DefaultOptions())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadFromEncryptedFile(t *testing.T) {
	path := writePlain(t, strings.Join(sampleUserFile, "\n")+"\n")
	_, err := EncryptFile(path, cipher.DefaultKey)
	require.NoError(t, err)

	ops, err := LoadOperations(path, cipher.DefaultKey, FlagNonEmpty)
	require.NoError(t, err)
	assert.Len(t, ops, 3)
	assert.True(t, model.Balance(ops).Equal(dec("2165.65")))

	budgets, err := LoadBudgets(path, cipher.DefaultKey)
	require.NoError(t, err)
	assert.Len(t, budgets, 2)

	_, err = LoadOperations(path, 0, FlagNonEmpty)
	assert.ErrorIs(t, err, ErrMalformedRecord, "reading with the wrong key fails on the tag check")
}

func TestSaveLoadIdentities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ident.txt")
	ids := map[string]model.Identity{
		"12345678": {Login: "12345678", Password: "abc123", Name: "Jean", Key: 23},
	}
	require.NoError(t, SaveIdentities(path, ids, cipher.DefaultKey))

	got, err := LoadIdentities(path, cipher.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, ids, got)
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, countLines(""))
	assert.Equal(t, 1, countLines("a"))
	assert.Equal(t, 1, countLines("a\n"))
	assert.Equal(t, 2, countLines("a\nb"))
}
