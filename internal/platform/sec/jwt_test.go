// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestTokenService_RoundTrip(t *testing.T) {
	key := newKey(t)
	signer := NewTokenServiceFromKeys(key, nil, "idolbase")
	verifier := NewTokenServiceFromKeys(nil, &key.PublicKey, "idolbase")

	token, err := signer.GenerateAccessToken("u-1", "editor", string(RoleAdmin), time.Hour)
	require.NoError(t, err)

	claims, err := verifier.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "editor", claims.Username)
	assert.Equal(t, "u-1", claims.Subject)
	assert.True(t, claims.IsAdmin())
}

func TestTokenService_Rejects(t *testing.T) {
	key := newKey(t)
	signer := NewTokenServiceFromKeys(key, nil, "idolbase")

	tests := []struct {
		name     string
		token    func(t *testing.T) string
		verifier *TokenService
	}{
		{
			name: "Wrong issuer",
			token: func(t *testing.T) string {
				token, err := NewTokenServiceFromKeys(key, nil, "elsewhere").GenerateAccessToken("u", "n", "admin", time.Hour)
				require.NoError(t, err)
				return token
			},
			verifier: signer,
		},
		{
			name: "Expired",
			token: func(t *testing.T) string {
				token, err := signer.GenerateAccessToken("u", "n", "admin", -time.Minute)
				require.NoError(t, err)
				return token
			},
			verifier: signer,
		},
		{
			name: "Signed by another key",
			token: func(t *testing.T) string {
				token, err := NewTokenServiceFromKeys(newKey(t), nil, "idolbase").GenerateAccessToken("u", "n", "admin", time.Hour)
				require.NoError(t, err)
				return token
			},
			verifier: signer,
		},
		{
			name:     "Garbage",
			token:    func(*testing.T) string { return "not.a.jwt" },
			verifier: signer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verifier.VerifyToken(tt.token(t))
			assert.Error(t, err)
		})
	}
}

func TestTokenService_VerifyOnly(t *testing.T) {
	key := newKey(t)
	verifier := NewTokenServiceFromKeys(nil, &key.PublicKey, "idolbase")

	_, err := verifier.GenerateAccessToken("u", "n", "admin", time.Hour)
	assert.ErrorIs(t, err, ErrSigningDisabled)
}

func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		role   UserRole
		target UserRole
		want   bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleViewer, true},
		{RoleViewer, RoleAdmin, false},
		{RoleViewer, RoleViewer, true},
		{UserRole("root"), RoleViewer, false},
		{UserRole(""), UserRole(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+">="+string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.target))
		})
	}

	var claims *AuthClaims
	assert.False(t, claims.IsAdmin())
}
