package post

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  error
	}{
		{name: "text only", draft: Draft{Description: "caught a bass"}},
		{name: "image only", draft: Draft{Images: [][]byte{{0xff, 0xd8}}}},
		{name: "empty", draft: Draft{Description: "   "}, want: ErrEmpty},
		{name: "description at limit", draft: Draft{Description: strings.Repeat("a", MaxDescriptionLen)}},
		{name: "description too long", draft: Draft{Description: strings.Repeat("a", MaxDescriptionLen+1)}, want: ErrDescriptionTooLong},
		{name: "tag at limit", draft: Draft{Description: "x", Tags: []string{strings.Repeat("t", 63)}}},
		{name: "tag too long", draft: Draft{Description: "x", Tags: []string{strings.Repeat("t", 64)}}, want: ErrTagTooLong},
		{name: "image too large", draft: Draft{Images: [][]byte{make([]byte, MaxImageBytes+1)}}, want: ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
