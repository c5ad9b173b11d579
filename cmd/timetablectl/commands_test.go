package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCommand()
	for _, path := range [][]string{{"migrate", "up"}, {"migrate", "down"}, {"migrate", "version"}, {"generate"}, {"pin"}, {"unpin"}, {"token"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestTokenCommandMintsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "timetable-api")

	root := newRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"token", "teacher-7", "--role", "TEACHER"})
	require.NoError(t, root.Execute())

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))

	claims, err := service.NewTokenService(service.TokenConfig{Secret: "cli-secret", Issuer: "timetable-api"}).ValidateToken(payload.Token)
	require.NoError(t, err)
	assert.Equal(t, "teacher-7", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestPinRejectsNonNumericID(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"pin", "abc"})
	assert.Error(t, root.Execute())
}
