package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebooker/api/internal/domain"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTValidator_Validate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	valid := Claims{
		Roles: []string{"Customer", " owner "},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
	noSubject := valid
	noSubject.Subject = ""

	tests := []struct {
		name    string
		token   string
		want    domain.User
		wantErr error
	}{
		{
			name:  "valid token",
			token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid),
			want:  domain.User{ID: "user-1", Roles: []string{"customer", "owner"}},
		},
		{name: "empty token", token: "", wantErr: ErrMissingToken},
		{
			name:    "expired",
			token:   signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong secret",
			token:   signToken(t, jwt.SigningMethodHS256, []byte("other"), valid),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "missing subject",
			token:   signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noSubject),
			wantErr: ErrInvalidToken,
		},
		{name: "garbage", token: "not.a.token", wantErr: ErrInvalidToken},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			validator := NewJWTValidator(testSecret)
			validator.now = func() time.Time { return now }

			user, err := validator.Validate(testCase.token)
			if testCase.wantErr != nil {
				assert.True(t, errors.Is(err, testCase.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, user)
		})
	}
}

func TestJWTValidator_NoSecret(t *testing.T) {
	_, err := NewJWTValidator("  ").Validate("abc")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "Bearer abc.def", want: "abc.def"},
		{header: "bearer   xyz ", want: "xyz"},
		{header: "Basic abc", want: ""},
		{header: "Bearer", want: ""},
		{header: "", want: ""},
	}

	for _, testCase := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", testCase.header)
		assert.Equal(t, testCase.want, ExtractBearerToken(req), testCase.header)
	}
	assert.Empty(t, ExtractBearerToken(nil))
}

func TestUserContext(t *testing.T) {
	assert.False(t, UserFromContext(context.Background()).Authenticated())

	ctx := WithUser(context.Background(), domain.User{ID: "u", Roles: []string{domain.RoleOwner}})
	assert.Equal(t, "u", UserFromContext(ctx).ID)
}
