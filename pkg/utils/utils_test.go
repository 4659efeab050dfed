package utils

import (
	"math"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type signup struct {
	Email    string `json:"email" validate:"required,basic_email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   signup
		tags []string
	}{
		{name: "valid", in: signup{Email: "a@x.com", Password: "secret"}},
		{name: "missing email", in: signup{Password: "secret"}, tags: []string{"required"}},
		{name: "no dot in domain", in: signup{Email: "a@x", Password: "secret"}, tags: []string{"basic_email"}},
		{name: "whitespace", in: signup{Email: "a b@x.com", Password: "secret"}, tags: []string{"basic_email"}},
		{name: "short password", in: signup{Email: "a@x.com", Password: "12345"}, tags: []string{"min"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.in)
			if len(tt.tags) == 0 {
				assert.Empty(t, errs)
				return
			}
			for _, tag := range tt.tags {
				assert.True(t, HasTag(errs, tag), "expected %s failure", tag)
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	msg := FormatValidationErrors(ValidateStruct(signup{}))
	assert.Equal(t, "Email: This field is required; Password: This field is required", msg)
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, hasher.Compare(hash, "secret1"))
	assert.False(t, hasher.Compare(hash, "secret2"))
	assert.False(t, hasher.Compare("", "secret1"))

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).Cost)
}

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, c >= '0' && c <= '9', "non digit in %q", code)
		}
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)

	code, err := GenerateOTP(0)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 100))
	assert.Equal(t, 1, TotalPages(100, 100))
	assert.Equal(t, 2, TotalPages(101, 100))
	assert.Equal(t, 0, PageOffset(0, 100))
	assert.Equal(t, 200, PageOffset(3, 100))

	page, perPage := PageParams(url.Values{"page": {"3"}, "per_page": {"25"}}, 100)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, perPage)

	page, perPage = PageParams(url.Values{"page": {"-1"}, "per_page": {"abc"}}, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, perPage)

	page, _ = PageParams(url.Values{"page": {"9223372036854775807"}}, 100)
	assert.Equal(t, MaxPage, page)
	assert.Positive(t, PageOffset(page, 500))

	page, _ = PageParams(url.Values{"page": {"99999999999999999999"}}, 100)
	assert.Equal(t, 1, page)

	assert.Equal(t, (MaxPage-1)*500, PageOffset(math.MaxInt, 500))
}

func TestInitLogger(t *testing.T) {
	dir := t.TempDir()

	logger, err := InitLogger(AppConfig{Name: "probul-backend", LogPath: dir})
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"app":"probul-backend"`)
}
