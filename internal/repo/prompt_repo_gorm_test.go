package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"%", `\%`},
		{"_", `\_`},
		{`a\b`, `a\\b`},
		{"100%_done", `100\%\_done`},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, escapeLike(c.in))
	}
}

func TestTagMatchExpr(t *testing.T) {
	assert.Equal(t, "tags LIKE BINARY ?", tagMatchExpr("mysql"))
	assert.Equal(t, "tags LIKE ?", tagMatchExpr("postgres"))
}
