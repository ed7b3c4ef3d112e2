package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "dev (git unknown, built unknown)", String())

	old := Version
	t.Cleanup(func() { Version = old })
	Version = "1.2.0"
	assert.Equal(t, "1.2.0 (git unknown, built unknown)", String())
}
