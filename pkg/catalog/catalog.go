// Package catalog maps cloud service names to Price List API service codes and
// Service Quotas service codes.
package catalog

import (
	"sort"
	"strings"
	"unicode"
)

// abbreviations are upper-cased instead of title-cased when deriving a pricing code
var abbreviations = map[string]bool{
	"ec2": true,
	"s3":  true,
	"rds": true,
	"sns": true,
	"sqs": true,
	"efs": true,
}

// ServiceCatalog holds the immutable service name mappings. It is built once at
// process start and shared by reference.
type ServiceCatalog struct {
	identifiers  []string
	pricingCodes map[string]string
	quotaCodes   map[string]string
}

// New builds a catalog from SDK service identifiers
func New(identifiers []string) *ServiceCatalog {
	pricingCodes, quotaCodes := BuildServiceMappings(identifiers)

	ids := make([]string, 0, len(identifiers))
	seen := make(map[string]bool, len(identifiers))
	for _, id := range identifiers {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &ServiceCatalog{
		identifiers:  ids,
		pricingCodes: pricingCodes,
		quotaCodes:   quotaCodes,
	}
}

// BuildServiceMappings derives the pricing and quota maps for the given
// identifiers. Every identifier is registered under three aliases: as is,
// hyphens removed, and hyphens replaced by spaces. Manual overrides are applied
// last.
func BuildServiceMappings(identifiers []string) (map[string]string, map[string]string) {
	pricingCodes := make(map[string]string, len(identifiers)*3+len(manualOverrides))
	quotaCodes := make(map[string]string, len(identifiers)*3+len(manualOverrides))

	for _, id := range identifiers {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		pricingCode := DerivePricingCode(id)
		quotaCode := DeriveQuotaCode(id)
		for _, alias := range Aliases(id) {
			pricingCodes[alias] = pricingCode
			quotaCodes[alias] = quotaCode
		}
	}

	for name, o := range manualOverrides {
		pricingCodes[name] = o.pricingCode
		quotaCodes[name] = o.quotaCode
	}

	return pricingCodes, quotaCodes
}

// Aliases returns the lookup variants of a service identifier
func Aliases(id string) []string {
	aliases := []string{id}
	if noHyphen := strings.ReplaceAll(id, "-", ""); noHyphen != id {
		aliases = append(aliases, noHyphen)
	}
	if spaced := strings.ReplaceAll(id, "-", " "); spaced != id {
		aliases = append(aliases, spaced)
	}
	return aliases
}

// DerivePricingCode guesses the Price List API service code of an identifier,
// e.g. "acm-pca" -> "AmazonAcmPca", "aws-backup" -> "AWSBackup", "ec2" -> "AmazonEC2"
func DerivePricingCode(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	switch {
	case strings.HasPrefix(id, "amazon-"):
		return "Amazon" + titleJoin(strings.TrimPrefix(id, "amazon-"))
	case strings.HasPrefix(id, "aws-"):
		return "AWS" + titleJoin(strings.TrimPrefix(id, "aws-"))
	}

	if abbreviations[id] {
		return "Amazon" + strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	}
	return "Amazon" + titleJoin(id)
}

// DeriveQuotaCode guesses the Service Quotas service code of an identifier
func DeriveQuotaCode(id string) string {
	return stripSeparators(strings.ToLower(strings.TrimSpace(id)))
}

// PricingCode returns the pricing code registered for an exact name
func (c *ServiceCatalog) PricingCode(name string) (string, bool) {
	code, ok := c.pricingCodes[name]
	return code, ok
}

// QuotaCode returns the quota code registered for an exact name
func (c *ServiceCatalog) QuotaCode(name string) (string, bool) {
	code, ok := c.quotaCodes[name]
	return code, ok
}

// ResolvePricingCode looks up a service name and its normalized variants,
// falling back to heuristic derivation. It never fails.
func (c *ServiceCatalog) ResolvePricingCode(name string) string {
	if code, ok := lookupVariants(c.pricingCodes, name); ok {
		return code
	}
	return DerivePricingCode(strings.ReplaceAll(normalize(name), " ", "-"))
}

// ResolveQuotaCode looks up a service name and its normalized variants,
// falling back to heuristic derivation. It never fails.
func (c *ServiceCatalog) ResolveQuotaCode(name string) string {
	if code, ok := lookupVariants(c.quotaCodes, name); ok {
		return code
	}
	return DeriveQuotaCode(normalize(name))
}

// Identifiers returns the sorted, deduplicated SDK identifiers
func (c *ServiceCatalog) Identifiers() []string {
	return append([]string(nil), c.identifiers...)
}

// PricingCodes returns a copy of the pricing map
func (c *ServiceCatalog) PricingCodes() map[string]string {
	return copyMap(c.pricingCodes)
}

// QuotaCodes returns a copy of the quota map
func (c *ServiceCatalog) QuotaCodes() map[string]string {
	return copyMap(c.quotaCodes)
}

func lookupVariants(m map[string]string, name string) (string, bool) {
	n := normalize(name)
	variants := []string{
		n,
		strings.ReplaceAll(n, " ", "-"),
		strings.ReplaceAll(n, "-", " "),
		strings.ReplaceAll(n, "-", ""),
		stripSeparators(n),
	}
	for _, v := range variants {
		if code, ok := m[v]; ok {
			return code, true
		}
	}
	return "", false
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func stripSeparators(s string) string {
	return strings.NewReplacer("-", "", " ", "", "_", "").Replace(s)
}

// titleJoin title-cases every word (a letter not preceded by a letter starts
// a word) and drops the hyphens
func titleJoin(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if r == '-' {
			prevLetter = false
			continue
		}
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
