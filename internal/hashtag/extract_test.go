package hashtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"none", "just some text", nil},
		{"single", "hello #world", []string{"#world"}},
		{"order preserved", "#beta then #alpha", []string{"#beta", "#alpha"}},
		{"case preserved", "#Demo and #demo", []string{"#Demo", "#demo"}},
		{"punctuation ends tag", "check #go! now", []string{"#go"}},
		{"underscores and digits", "#go_lang #v2", []string{"#go_lang", "#v2"}},
		{"duplicates kept", "#x and #x again", []string{"#x", "#x"}},
		{"bare hash ignored", "just a # sign", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract(tc.text))
		})
	}
}
