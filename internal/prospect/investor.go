package prospect

import (
	"sort"
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

// GroupInvestors aggregates a search's working set into ownership portfolios.
//
// Records group primarily by normalized owner name. Records without a
// resolvable name group by mailing address instead, but only when that
// address differs from the property's own address: several properties sharing
// one non-local mailing address belong to the same unnamed investor entity.
//
// Single-property groups are dropped — one house is not a portfolio — except
// when the sole owner is corporate- or absentee-flagged and has a resolvable
// name, since a single corporate or absentee owner is still worth prospecting.
//
// Groups sort by property count descending, ties broken by total value
// descending.
func GroupInvestors(records []attom.Property) []model.InvestorGroup {
	type bucket struct {
		byMail bool
		props  []attom.Property
	}
	buckets := make(map[string]*bucket)
	var order []string

	add := func(key string, byMail bool, p attom.Property) {
		b, ok := buckets[key]
		if !ok {
			b = &bucket{byMail: byMail}
			buckets[key] = b
			order = append(order, key)
		}
		b.props = append(b.props, p)
	}

	for _, p := range records {
		if name, src := OwnerName(&p); src != model.NameSourceUnknown {
			add("name:"+strings.ToLower(name), false, p)
			continue
		}

		mail, ok := OwnerMailingAddress(&p)
		if !ok {
			continue
		}
		situs, ok := SitusAddress(&p)
		if !ok || strings.EqualFold(mail, situs) {
			continue
		}
		add("mail:"+strings.ToLower(mail), true, p)
	}

	groups := make([]model.InvestorGroup, 0, len(buckets))
	for _, key := range order {
		b := buckets[key]
		if len(b.props) < 2 && !singletonWorthKeeping(b.props) {
			continue
		}
		groups = append(groups, buildGroup(b.props, b.byMail))
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].Properties) != len(groups[j].Properties) {
			return len(groups[i].Properties) > len(groups[j].Properties)
		}
		return groups[i].TotalValue > groups[j].TotalValue
	})
	return groups
}

// singletonWorthKeeping reports whether a one-property group should still be
// surfaced: corporate or absentee owner with a resolvable name.
func singletonWorthKeeping(props []attom.Property) bool {
	if len(props) != 1 {
		return false
	}
	p := &props[0]
	if _, src := OwnerName(p); src == model.NameSourceUnknown {
		return false
	}
	return IsCorporateOwner(p) || IsAbsentee(p)
}

// buildGroup computes the portfolio aggregates for one bucket.
func buildGroup(props []attom.Property, byMail bool) model.InvestorGroup {
	g := model.InvestorGroup{Properties: props}

	if name, src := OwnerName(&props[0]); src != model.NameSourceUnknown {
		g.OwnerName = name
	} else if byMail {
		if mail, ok := OwnerMailingAddress(&props[0]); ok {
			g.OwnerName = "Unknown Owner (" + mail + ")"
		} else {
			g.OwnerName = "Unknown Owner (Shared Mailing Address)"
		}
	} else {
		g.OwnerName = "Unknown"
	}
	if mail, ok := OwnerMailingAddress(&props[0]); ok {
		g.MailingAddress = mail
	}

	var yearSum, yearCount int
	for i := range props {
		p := &props[i]
		if IsCorporateOwner(p) {
			g.IsCorporate = true
		}
		if tax, ok := AnnualTax(p); ok {
			g.TotalTaxBurden += tax
		}
		if v, ok := PropertyValue(p); ok {
			g.TotalValue += v
		}
		if y, ok := YearBuilt(p); ok {
			yearSum += y
			yearCount++
			if g.OldestYear == nil || y < *g.OldestYear {
				year := y
				g.OldestYear = &year
			}
		}
	}
	if yearCount > 0 {
		avg := (yearSum + yearCount/2) / yearCount
		g.AvgYear = &avg
	}
	return g
}
