// SPDX-License-Identifier: Apache-2.0

package gnb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validValues() map[string]string {
	return map[string]string{
		AddressKey:  "10.0.0.1/24",
		IDLengthKey: "32",
		MCCKey:      "208",
		MNCKey:      "93",
		NCIKey:      "0x1",
		SDKey:       "1",
		SSTKey:      "1",
		TACKey:      "1",
	}
}

func TestSnapshotInvalid(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s := NewSnapshot(validValues())
		assert.Empty(t, s.Invalid())
	})
	t.Run("empty", func(t *testing.T) {
		s := NewSnapshot(map[string]string{})
		assert.Equal(t,
			[]string{"gnb-address", "id-length", "mcc", "mnc", "nci", "sd", "sst", "tac"},
			s.Invalid())
	})
	t.Run("missingSome", func(t *testing.T) {
		v := validValues()
		delete(v, TACKey)
		v[MCCKey] = "  "
		s := NewSnapshot(v)
		assert.Equal(t, []string{"mcc", "tac"}, s.Invalid())
	})
	t.Run("interfaceOptional", func(t *testing.T) {
		v := validValues()
		v[InterfaceKey] = ""
		s := NewSnapshot(v)
		assert.Empty(t, s.Invalid())
		assert.False(t, s.HasInterface())
	})
	t.Run("badNumbers", func(t *testing.T) {
		v := validValues()
		v[IDLengthKey] = "long"
		v[SSTKey] = "0"
		s := NewSnapshot(v)
		assert.Equal(t, []string{"id-length", "sst"}, s.Invalid())
	})
	t.Run("hexTACIsNotAGate", func(t *testing.T) {
		v := validValues()
		v[TACKey] = "zz"
		s := NewSnapshot(v)
		assert.Empty(t, s.Invalid())
		_, err := s.TACValue()
		assert.Error(t, err)
	})
}

func TestSnapshotValues(t *testing.T) {
	v := validValues()
	v[InterfaceKey] = "eth1"
	v[TACKey] = "00ff"
	s, err := Load(context.Background(), StaticConfig(v))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", s.GTPAddress())
	assert.True(t, s.HasInterface())
	tac, err := s.TACValue()
	require.NoError(t, err)
	assert.Equal(t, 255, tac)

	s.Address = "10.0.0.9"
	assert.Equal(t, "10.0.0.9", s.GTPAddress())
}

func TestSnapshotTACValue(t *testing.T) {
	cases := []struct {
		tac      string
		expected int
	}{
		{"1", 1},
		{"0x1", 1},
		{"0X1a", 26},
		{"00ff", 255},
		{"0", 0},
	}
	for _, c := range cases {
		t.Run(c.tac, func(t *testing.T) {
			s := &Snapshot{TAC: c.tac}
			v, err := s.TACValue()
			require.NoError(t, err)
			assert.Equal(t, c.expected, v)
		})
	}
	for _, bad := range []string{"0x", "zz", "0xg1", ""} {
		s := &Snapshot{TAC: bad}
		_, err := s.TACValue()
		assert.Error(t, err, "tac %q", bad)
	}
}

func TestStaticConfigCopies(t *testing.T) {
	sc := StaticConfig{"mcc": "001"}
	v, err := sc.ConfigValues(context.Background())
	require.NoError(t, err)
	v["mcc"] = "999"
	assert.Equal(t, "001", sc["mcc"])
}
