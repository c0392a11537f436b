package listparam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single", "category_a", []string{"CATEGORY_A"}},
		{"dedupes case-insensitively", " not_ok,CATEGORY_A,,Not_OK ", []string{"NOT_OK", "CATEGORY_A"}},
		{"only separators", ",,,", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.raw))
		})
	}
}
