package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "Jl. Merdeka No. 5", Text("  <b>Jl.   Merdeka</b>\tNo. 5 "))
	assert.Equal(t, "alert(1)", Text("<script>alert(1)</script>"))
	assert.Equal(t, "", Text("&lt;i&gt;&lt;/i&gt;"))
}

func TestTextPtr(t *testing.T) {
	assert.Nil(t, TextPtr(nil))
	in := " <p>Desa Sukamaju</p> "
	assert.Equal(t, "Desa Sukamaju", *TextPtr(&in))
}
