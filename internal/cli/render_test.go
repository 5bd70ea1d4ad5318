package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/pkg/text"
)

func TestParseLineRange(t *testing.T) {
	doc := text.NewDoc("one\ntwo\nthree\n")

	tests := []struct {
		name    string
		spec    string
		want    text.Range
		wantErr bool
	}{
		{name: "single line", spec: "2", want: text.Range{From: 4, To: 7}},
		{name: "range", spec: "1-2", want: text.Range{From: 0, To: 7}},
		{name: "spaces", spec: " 2 - 3 ", want: text.Range{From: 4, To: 13}},
		{name: "last clamped", spec: "3-99", want: text.Range{From: 8, To: 14}},
		{name: "not a number", spec: "a-b", wantErr: true},
		{name: "zero", spec: "0-2", wantErr: true},
		{name: "reversed", spec: "3-1", wantErr: true},
		{name: "past end", spec: "10-12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLineRange(doc, tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidLineRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
