package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffContext(t *testing.T) {
	tests := []struct {
		name   string
		before map[string]string
		after  map[string]string
		want   map[string]string
	}{
		{
			name:   "changed and new keys",
			before: map[string]string{"a": "1", "b": "2"},
			after:  map[string]string{"a": "1", "b": "3", "c": "4"},
			want:   map[string]string{"b": "3", "c": "4"},
		},
		{
			name:   "no changes",
			before: map[string]string{"a": "1"},
			after:  map[string]string{"a": "1"},
			want:   map[string]string{},
		},
		{
			name:   "removed keys ignored",
			before: map[string]string{"a": "1", "b": "2"},
			after:  map[string]string{"a": "1"},
			want:   map[string]string{},
		},
		{
			name:   "empty before",
			before: map[string]string{},
			after:  map[string]string{"a": "1"},
			want:   map[string]string{"a": "1"},
		},
		{
			name:   "both empty",
			before: map[string]string{},
			after:  map[string]string{},
			want:   map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, diffContext(tt.before, tt.after))
		})
	}
}
