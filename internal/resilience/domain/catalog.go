package domain

import (
	"fmt"
	"strings"
)

type Domain struct {
	Code   DomainCode `json:"code"`
	Prefix string     `json:"prefix"`
}

// Catalog is the static, ordered domain-to-prefix mapping. It is never
// derived from the data.
type Catalog struct {
	domains []Domain
	byCode  map[DomainCode]Domain
}

func NewCatalog(domains ...Domain) (*Catalog, error) {
	c := &Catalog{byCode: make(map[DomainCode]Domain, len(domains))}
	for _, d := range domains {
		if d.Code == "" {
			return nil, fmt.Errorf("domain code is required")
		}
		if !strings.HasSuffix(d.Prefix, PrefixSeparator) || len(d.Prefix) == len(PrefixSeparator) {
			return nil, fmt.Errorf("domain %s: prefix %q must end with %q", d.Code, d.Prefix, PrefixSeparator)
		}
		if _, dup := c.byCode[d.Code]; dup {
			return nil, fmt.Errorf("domain %s declared twice", d.Code)
		}
		c.domains = append(c.domains, d)
		c.byCode[d.Code] = d
	}
	return c, nil
}

// CanonicalCatalog covers all eight resilience domains.
func CanonicalCatalog() *Catalog {
	c, _ := NewCatalog(domainsFor(CanonicalDomains())...)
	return c
}

// CanonicalDomains is the domain order used by every view unless a caller
// asks for something else.
func CanonicalDomains() []DomainCode {
	return []DomainCode{DomainISU, DomainCB, DomainAWM, DomainCRF, DomainCC, DomainSC, DomainCA, DomainFP}
}

// LegacyOverviewDomains is the list the first overview page shipped with.
// It omits SC; kept only so older exports can be reproduced.
func LegacyOverviewDomains() []DomainCode {
	return []DomainCode{DomainISU, DomainCB, DomainAWM, DomainCRF, DomainCC, DomainCA, DomainFP}
}

func domainsFor(codes []DomainCode) []Domain {
	out := make([]Domain, 0, len(codes))
	for _, code := range codes {
		out = append(out, Domain{Code: code, Prefix: string(code) + PrefixSeparator})
	}
	return out
}

func (c *Catalog) Domains() []Domain {
	out := make([]Domain, len(c.domains))
	copy(out, c.domains)
	return out
}

func (c *Catalog) Codes() []DomainCode {
	out := make([]DomainCode, 0, len(c.domains))
	for _, d := range c.domains {
		out = append(out, d.Code)
	}
	return out
}

func (c *Catalog) Lookup(code DomainCode) (Domain, bool) {
	d, ok := c.byCode[code]
	return d, ok
}

// Match reports which domain owns an indicator column, if any.
func (c *Catalog) Match(column string) (DomainCode, bool) {
	for _, d := range c.domains {
		if strings.HasPrefix(column, d.Prefix) {
			return d.Code, true
		}
	}
	return "", false
}

// ParseCodes turns a comma separated list ("ISU, CB") into known codes,
// keeping the caller's order and dropping duplicates.
func (c *Catalog) ParseCodes(raw string) ([]DomainCode, error) {
	var out []DomainCode
	seen := map[DomainCode]bool{}
	for _, part := range strings.Split(raw, ",") {
		code := DomainCode(strings.TrimSpace(part))
		if code == "" || seen[code] {
			continue
		}
		if _, ok := c.byCode[code]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDomain, code)
		}
		seen[code] = true
		out = append(out, code)
	}
	return out, nil
}
