package gate

import "fmt"

// CheckPricing verifies that every selected vendor has a complete quote for
// every line item. A vendor with no pricing entries at all yields a single
// MISSING_PRICE gap; otherwise each line item is checked field by field and
// each incomplete field yields its own gap.
func CheckPricing(ctx Context) CheckResult {
	var out CheckResult

	for _, vendor := range ctx.SelectedVendors {
		priced := ctx.Pricing[vendor.ID]
		if len(priced) == 0 {
			out.add(MissingPrice, fmt.Sprintf("No pricing provided by %s", vendor.Name))
			out.recommend(fmt.Sprintf("Request a quote from %s", vendor.Name))
			continue
		}

		bySKU := make(map[string]PricedItem, len(priced))
		for _, p := range priced {
			bySKU[p.SKU] = p
		}

		for _, item := range ctx.Items {
			p, ok := bySKU[item.SKU]
			if !ok {
				out.add(MissingPrice, fmt.Sprintf("%s has no price for %s", vendor.Name, item.SKU))
				continue
			}
			if p.UnitPrice <= 0 {
				out.add(InvalidPrice, fmt.Sprintf("%s quoted a non-positive unit price for %s", vendor.Name, item.SKU))
			}
			if p.Currency == "" {
				out.add(MissingCurrency, fmt.Sprintf("%s quote for %s has no currency", vendor.Name, item.SKU))
			}
			if p.LeadTimeDays <= 0 {
				out.add(MissingLeadTime, fmt.Sprintf("%s quote for %s has no lead time", vendor.Name, item.SKU))
			}
			if p.DeliveryTerms == "" {
				out.add(MissingDeliveryTerms, fmt.Sprintf("%s quote for %s has no delivery terms", vendor.Name, item.SKU))
			}
			if p.QuoteValidity == "" {
				out.add(MissingQuoteValidity, fmt.Sprintf("%s quote for %s has no validity period", vendor.Name, item.SKU))
			}
		}
	}

	return out
}
