package webhooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignAndVerifyHMAC(t *testing.T) {
	body := []byte(`{"type":"solve.completed"}`)
	sig := SignHMAC("secret", body)
	assert.Len(t, sig, 64)
	assert.True(t, VerifyHMAC("secret", body, sig))
}

func TestVerifyHMACRejectsTampering(t *testing.T) {
	body := []byte(`{"type":"solve.completed"}`)
	sig := SignHMAC("secret", body)

	assert.False(t, VerifyHMAC("secret", []byte(`{"type":"solve.failed"}`), sig))
	assert.False(t, VerifyHMAC("wrong", body, sig))
	assert.False(t, VerifyHMAC("secret", body, "not-hex"))
	assert.False(t, VerifyHMAC("secret", body, ""))
}
