package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func catalogWith(codes ...string) Catalog {
	c := Catalog{}
	for _, code := range codes {
		c[code] = nil
	}
	return c
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		catalog   Catalog
		want      string
	}{
		{
			name:      "exact after normalization",
			requested: "csi 2110",
			catalog:   catalogWith("CSI2110", "CSI2101"),
			want:      "CSI2110",
		},
		{
			name:      "spacing collapses before lookup",
			requested: "GNG 2101",
			catalog:   catalogWith("GNG2101"),
			want:      "GNG2101",
		},
		{
			name:      "closest number within subject",
			requested: "CSI2115",
			catalog:   catalogWith("CSI2110", "CSI2132", "MAT2115"),
			want:      "CSI2110",
		},
		{
			name:      "numeric tie broken lexicographically",
			requested: "CSI2120",
			catalog:   catalogWith("CSI2110", "CSI2130"),
			want:      "CSI2110",
		},
		{
			name:      "prefix fallback",
			requested: "PHYSICS",
			catalog:   catalogWith("PHY1121", "PHY1122"),
			want:      "PHY1121",
		},
		{
			name:      "nothing plausible",
			requested: "BIO1130",
			catalog:   catalogWith("CSI2110"),
			want:      "",
		},
		{
			name:      "empty request",
			requested: "",
			catalog:   catalogWith("CSI2110"),
			want:      "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.requested, tt.catalog))
		})
	}
}
