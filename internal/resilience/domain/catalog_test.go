package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name    string
		domains []Domain
		wantErr bool
	}{
		{"valid", []Domain{{Code: DomainISU, Prefix: "ISU:"}, {Code: DomainCB, Prefix: "CB:"}}, false},
		{"missing separator", []Domain{{Code: DomainISU, Prefix: "ISU"}}, true},
		{"separator only", []Domain{{Code: DomainISU, Prefix: ":"}}, true},
		{"empty code", []Domain{{Code: "", Prefix: "X:"}}, true},
		{"duplicate code", []Domain{{Code: DomainISU, Prefix: "ISU:"}, {Code: DomainISU, Prefix: "ISU2:"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(tt.domains...)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []DomainCode{DomainISU, DomainCB}, c.Codes())
		})
	}
}

func TestCanonicalCatalog(t *testing.T) {
	c := CanonicalCatalog()
	assert.Equal(t, CanonicalDomains(), c.Codes())
	assert.Len(t, c.Domains(), 8)

	d, ok := c.Lookup(DomainSC)
	require.True(t, ok)
	assert.Equal(t, "SC:", d.Prefix)

	assert.NotContains(t, LegacyOverviewDomains(), DomainSC)
	assert.Len(t, LegacyOverviewDomains(), 7)
}

func TestCatalog_Match(t *testing.T) {
	c := CanonicalCatalog()

	tests := []struct {
		column string
		want   DomainCode
		ok     bool
	}{
		{"ISU:q1", DomainISU, true},
		{"CC:Has a continuity plan", DomainCC, true},
		{"isu:q1", "", false},
		{"ISUX:q1", "", false},
		{"ISU q1", "", false},
		{"ISU", "", false},
		{"Business Size", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			got, ok := c.Match(tt.column)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_ParseCodes(t *testing.T) {
	c := CanonicalCatalog()

	codes, err := c.ParseCodes(" CB, ISU ,CB,, FP")
	require.NoError(t, err)
	assert.Equal(t, []DomainCode{DomainCB, DomainISU, DomainFP}, codes)

	codes, err = c.ParseCodes("")
	require.NoError(t, err)
	assert.Empty(t, codes)

	_, err = c.ParseCodes("ISU,isu")
	assert.ErrorIs(t, err, ErrUnknownDomain)

	_, err = c.ParseCodes("XYZ")
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestResolveDimension(t *testing.T) {
	assert.Equal(t, ColumnBusinessSize, ResolveDimension("size"))
	assert.Equal(t, ColumnBusinessSector, ResolveDimension(" Sector "))
	assert.Equal(t, ColumnCyberResilience, ResolveDimension(""))
	assert.Equal(t, "Region", ResolveDimension(" Region "))
}
