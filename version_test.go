package gemmcheck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleVersion(t *testing.T) {
	version, sum := moduleVersion("example.com/not/linked")
	assert.Empty(t, version)
	assert.Empty(t, sum)

	// Test binaries built from a checkout may or may not record versions.
	if v := GonumVersion(); v != "" {
		assert.True(t, strings.HasPrefix(v, "v") || strings.Contains(v, "=>"), v)
	}
	v, _ := Version()
	t.Logf("gemmcheck %q, gonum %q", v, GonumVersion())
}
