package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeE164(t *testing.T) {
	assert.Equal(t, "+6281234567890", NormalizeE164("0812-3456-7890", "ID"))
	assert.Equal(t, "+6281234567890", NormalizeE164(" +62 812 3456 7890 ", ""))
	assert.Equal(t, "not a phone", NormalizeE164(" not a phone ", "ID"))
	assert.Equal(t, "", NormalizeE164("   ", "ID"))
}
