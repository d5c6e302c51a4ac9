package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"usa", "UNITED STATES OF AMERICA"},
		{"USA", "UNITED STATES OF AMERICA"},
		{"  United   States ", "UNITED STATES OF AMERICA"},
		{"UK", "UNITED KINGDOM"},
		{"Russia", "RUSSIAN FEDERATION"},
		{"South Korea", "KOREA, REPUBLIC OF"},
		{"Czechia", "CZECH REPUBLIC"},
		{"France", "FRANCE"},
		{"Côte d'Ivoire", "COTE D'IVOIRE"},
		{"FRA", "FRA"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.in))
		})
	}
}

func TestCanonical_Idempotent(t *testing.T) {
	inputs := []string{"usa", "Viet Nam", "vietnam", "Deutschland", "São Tomé", "north korea", "  x  "}
	for k := range aliases {
		inputs = append(inputs, k)
	}
	for _, in := range inputs {
		once := Canonical(in)
		assert.Equal(t, once, Canonical(once), "input %q", in)
	}
}

func TestAliasTargetsAreFixedPoints(t *testing.T) {
	for k, v := range aliases {
		assert.Equal(t, v, aliases[v], "target of %q must map to itself", k)
		assert.Equal(t, Normalize(k), k, "alias key %q must be normalized", k)
	}
}
