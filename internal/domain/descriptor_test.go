package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheduleDescriptor(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		want       []SlotKey
	}{
		{
			name:       "labeled block with two days",
			descriptor: "Lun-Mié Bloque 3-4",
			want: []SlotKey{
				{Day: Lunes, BlockPair: "3-4"},
				{Day: Miercoles, BlockPair: "3-4"},
			},
		},
		{
			name:       "three days share the single block pair",
			descriptor: "Lun-Mié-Vie Bloque 1-2",
			want: []SlotKey{
				{Day: Lunes, BlockPair: "1-2"},
				{Day: Miercoles, BlockPair: "1-2"},
				{Day: Viernes, BlockPair: "1-2"},
			},
		},
		{
			name:       "bare block pair accepted as fallback",
			descriptor: "Mar-Jue 5-6",
			want: []SlotKey{
				{Day: Martes, BlockPair: "5-6"},
				{Day: Jueves, BlockPair: "5-6"},
			},
		},
		{
			name:       "labeled form wins over an earlier bare pair",
			descriptor: "Lun 1-2 Bloque 9-10",
			want:       []SlotKey{{Day: Lunes, BlockPair: "9-10"}},
		},
		{
			name:       "unaccented day variants",
			descriptor: "Mie-Sab Bloque 7-8",
			want: []SlotKey{
				{Day: Miercoles, BlockPair: "7-8"},
				{Day: Sabado, BlockPair: "7-8"},
			},
		},
		{
			name:       "clock time instead of block pair parses to nothing",
			descriptor: "Lun-Mié-Vie 7:00 AM",
			want:       nil,
		},
		{
			name:       "block pair without any day parses to nothing",
			descriptor: "Bloque 1-2",
			want:       nil,
		},
		{
			name:       "unknown day tokens are dropped",
			descriptor: "Dom-Lun Bloque 3-4",
			want:       []SlotKey{{Day: Lunes, BlockPair: "3-4"}},
		},
		{
			name:       "empty descriptor",
			descriptor: "",
			want:       nil,
		},
		{
			name:       "free text without structure",
			descriptor: "por confirmar",
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseScheduleDescriptor(tt.descriptor)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScheduleDescriptor_NeverPanicsOnGarbage(t *testing.T) {
	for _, s := range []string{"---", "Bloque", "Lun-", "1-2-3-4", "Bloque -", "Sáb"} {
		require.NotPanics(t, func() { _ = ParseScheduleDescriptor(s) }, "descriptor %q", s)
	}
}
