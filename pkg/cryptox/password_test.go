package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	SetPepper("test-pepper")
	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "secret1"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))
			require.Len(t, strings.Split(hash, "$"), 6)
			require.NotContains(t, hash, tt.password)

			require.NoError(t, VerifyPassword(tt.password, hash))
			require.True(t, PasswordMatches(tt.password, hash))
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, err := HashPassword("samepassword")
	require.NoError(t, err)
	hash2, err := HashPassword("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.True(t, PasswordMatches("samepassword", hash1))
	require.True(t, PasswordMatches("samepassword", hash2))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-password",
		"Correct-Password",
		"correct-password ",
		"",
		strings.Repeat("x", 10000),
	} {
		err := VerifyPassword(wrong, hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
		require.False(t, PasswordMatches(wrong, hash))
	}
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"plaintext", "secret1"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"zero parameters", "$argon2id$v=19$m=0,t=0,p=0$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"truncated bcrypt", "$2b$12$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				err := VerifyPassword("secret1", tt.invalidHash)
				require.ErrorIs(t, err, ErrInvalidHash)
			})
			require.False(t, PasswordMatches("secret1", tt.invalidHash))
		})
	}
}

func TestVerifyPassword_Bcrypt(t *testing.T) {
	digest, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, VerifyPassword("secret1", string(digest)))
	require.ErrorIs(t, VerifyPassword("secret2", string(digest)), ErrPasswordMismatch)

	// passlib writes $2b$; older exports use $2y$
	legacy := "$2y$" + strings.TrimPrefix(string(digest), "$2a$")
	require.True(t, PasswordMatches("secret1", legacy))
}

func TestHashPassword_PepperIsApplied(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	SetPepper("another-pepper")
	t.Cleanup(func() { SetPepper("test-pepper") })

	require.ErrorIs(t, VerifyPassword("secret1", hash), ErrPasswordMismatch)
}

func TestLoadPepper(t *testing.T) {
	t.Cleanup(func() { SetPepper("test-pepper") })
	path := filepath.Join(t.TempDir(), "keys", "pepper")

	require.NoError(t, LoadPepper(path))
	first := GetPepper()
	require.NotEmpty(t, first)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, first, string(data))

	SetPepper("")
	require.NoError(t, LoadPepper(path))
	require.Equal(t, first, GetPepper(), "existing pepper file should be reused")

	require.NoError(t, LoadPepper(""))
	require.Empty(t, GetPepper())
}
