package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConTenantYRole(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "tenant-1", "bodeguero", "inventario-ledger-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, "bodeguero", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "tenant-1", "admin", "test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "tenant-1", "admin", "test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u", "t", "admin", "test", 60)
	assert.Error(t, err)
	_, err = pkgjwt.Parse("", "x.y.z")
	assert.Error(t, err)
}

func TestParse_EmisorExigido(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "tenant-1", "admin", "idp-central", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok, pkgjwt.WithIssuer("idp-central"))
	assert.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok, pkgjwt.WithIssuer("otro-emisor"))
	assert.Error(t, err)

	_, err = pkgjwt.Parse(secret, tok, pkgjwt.WithIssuer(""))
	assert.NoError(t, err, "sin emisor configurado no se verifica iss")
}
