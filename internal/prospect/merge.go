package prospect

import (
	"reflect"
	"strings"

	"github.com/sells-group/prospect-cli/pkg/attom"
)

// Record reconciliation. Different provider endpoints return the same
// property with different subsets of the record tree populated, so the
// orchestrator fetches a base page plus supplemental views and merges them
// here. The merge policy is fill-forward: a populated base field is never
// replaced, an empty one is filled from the supplement. The policy is applied
// recursively through the nested groups (owner, sale, mortgage and its
// concurrent-loan sub-objects) so a supplement can contribute a single missing
// sub-field without clobbering its siblings. Two subtrees are instead taken
// wholesale from whichever source populated their key value: AVM (keyed on the
// valuation amount) and assessment (keyed on the assessed total), since a
// half-and-half valuation would mix observations from different models.

// Merge reconciles a base record with supplemental views of the same
// property. Supplements take precedence among themselves positionally (last
// wins where both define a field); against the base they only fill gaps.
// Merging with no supplements returns the base unchanged, and the operation
// is idempotent.
func Merge(base attom.Property, supps ...attom.Property) attom.Property {
	if len(supps) == 0 {
		return base
	}

	// Collapse supplements into one overlay, later entries winning.
	overlay := supps[0]
	for _, s := range supps[1:] {
		overlay = overlayRecord(overlay, s)
	}

	// Clone so filling nested groups never writes into the caller's record.
	out := *cloneValue(&base)

	// Richer source wins for the valuation subtrees.
	if !hasAVMValue(&out) && hasAVMValue(&overlay) {
		out.AVM = cloneValue(overlay.AVM)
	}
	if !hasAssessedTotal(&out) && hasAssessedTotal(&overlay) {
		out.Assessment = cloneValue(overlay.Assessment)
	}

	fillForward(reflect.ValueOf(&out).Elem(), reflect.ValueOf(&overlay).Elem())
	return out
}

// MergeSupplements merges supplemental endpoint result pages into a base
// page. Supplement records are keyed by provider id when present and by
// normalized one-line address otherwise; base records with no matching
// supplement pass through unchanged.
func MergeSupplements(base []attom.Property, supplements [][]attom.Property) []attom.Property {
	if len(supplements) == 0 {
		return base
	}

	byID := make(map[int64]attom.Property)
	byAddr := make(map[string]attom.Property)
	for _, page := range supplements {
		for _, s := range page {
			if id, ok := providerID(&s); ok {
				if existing, found := byID[id]; found {
					byID[id] = overlayRecord(existing, s)
				} else {
					byID[id] = s
				}
			}
			if addr, ok := addressKey(&s); ok {
				if existing, found := byAddr[addr]; found {
					byAddr[addr] = overlayRecord(existing, s)
				} else {
					byAddr[addr] = s
				}
			}
		}
	}

	merged := make([]attom.Property, 0, len(base))
	for _, p := range base {
		supp, found := matchSupplement(&p, byID, byAddr)
		if !found {
			merged = append(merged, p)
			continue
		}
		merged = append(merged, Merge(p, supp))
	}
	return merged
}

// matchSupplement looks a base record up in the supplement maps, by provider
// id first, then by normalized address.
func matchSupplement(p *attom.Property, byID map[int64]attom.Property, byAddr map[string]attom.Property) (attom.Property, bool) {
	if id, ok := providerID(p); ok {
		if s, found := byID[id]; found {
			return s, true
		}
	}
	if addr, ok := addressKey(p); ok {
		if s, found := byAddr[addr]; found {
			return s, true
		}
	}
	return attom.Property{}, false
}

// overlayRecord combines two views of the same property with b winning on any
// field both populate. Implemented as a fill-forward merge with b as the base.
func overlayRecord(a, b attom.Property) attom.Property {
	out := *cloneValue(&b)
	fillForward(reflect.ValueOf(&out).Elem(), reflect.ValueOf(&a).Elem())
	return out
}

// providerID returns the record's provider id, preferring attomId.
func providerID(p *attom.Property) (int64, bool) {
	if p.Identifier == nil {
		return 0, false
	}
	if p.Identifier.AttomID != nil && *p.Identifier.AttomID != 0 {
		return *p.Identifier.AttomID, true
	}
	if p.Identifier.ID != nil && *p.Identifier.ID != 0 {
		return *p.Identifier.ID, true
	}
	return 0, false
}

// addressKey returns the case-insensitive trimmed one-line address join key.
func addressKey(p *attom.Property) (string, bool) {
	if p.Address == nil {
		return "", false
	}
	s, ok := nonEmpty(p.Address.OneLine)
	if !ok {
		return "", false
	}
	return strings.ToLower(s), true
}

func hasAVMValue(p *attom.Property) bool {
	if p.AVM == nil || p.AVM.Amount == nil {
		return false
	}
	_, ok := positive(p.AVM.Amount.Value)
	return ok
}

func hasAssessedTotal(p *attom.Property) bool {
	if p.Assessment == nil || p.Assessment.Assessed == nil {
		return false
	}
	_, ok := positive(p.Assessment.Assessed.AssdTtlValue)
	return ok
}

// fillForward copies src fields into dst wherever dst is empty, recursing
// into nested structs both sides populate. dst and src must be addressable
// struct values of the same type whose fields are all pointers, which holds
// for every type in the record tree.
func fillForward(dst, src reflect.Value) {
	for i := 0; i < dst.NumField(); i++ {
		df, sf := dst.Field(i), src.Field(i)
		if df.Kind() != reflect.Pointer || emptyPtr(sf) {
			continue
		}
		if emptyPtr(df) {
			df.Set(clonePtr(sf))
			continue
		}
		if df.Elem().Kind() == reflect.Struct {
			fillForward(df.Elem(), sf.Elem())
		}
	}
}

// emptyPtr reports whether a pointer field counts as unpopulated for merge
// purposes: nil, a blank string, or a zero number. Zero-valued amounts from
// the provider mean "not present", matching its own endpoint behavior.
func emptyPtr(v reflect.Value) bool {
	if v.IsNil() {
		return true
	}
	switch e := v.Elem(); e.Kind() {
	case reflect.String:
		return strings.TrimSpace(e.String()) == ""
	case reflect.Float64, reflect.Float32:
		return e.Float() == 0
	case reflect.Int, reflect.Int64, reflect.Int32:
		return e.Int() == 0
	case reflect.Struct:
		// A struct branch counts as populated; its own fields are
		// handled by recursion.
		return false
	default:
		return false
	}
}

// clonePtr deep-copies a non-nil pointer so merged records never alias the
// supplement they were filled from.
func clonePtr(src reflect.Value) reflect.Value {
	out := reflect.New(src.Type().Elem())
	if src.Elem().Kind() != reflect.Struct {
		out.Elem().Set(src.Elem())
		return out
	}
	for i := 0; i < src.Elem().NumField(); i++ {
		sf := src.Elem().Field(i)
		if sf.Kind() != reflect.Pointer || sf.IsNil() {
			continue
		}
		out.Elem().Field(i).Set(clonePtr(sf))
	}
	return out
}

// cloneValue deep-copies a typed pointer from the record tree.
func cloneValue[T any](src *T) *T {
	if src == nil {
		return nil
	}
	return clonePtr(reflect.ValueOf(src)).Interface().(*T)
}
