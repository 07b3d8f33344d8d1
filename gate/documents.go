package gate

// minSpecLength is the shortest line-item description that counts as a
// usable specification.
const minSpecLength = 10

// CheckDocuments verifies the evidence trail behind the vendor selection.
// At least one vendor must carry both a contact and a website, and at least
// one line item must have a description longer than minSpecLength characters.
func CheckDocuments(ctx Context) CheckResult {
	var out CheckResult

	hasEvidence := false
	for _, vendor := range ctx.SelectedVendors {
		if vendor.Contact != "" && vendor.Website != "" {
			hasEvidence = true
			break
		}
	}
	if !hasEvidence {
		out.add(InsufficientEvidence, "No vendor has both contact details and a website on file")
		out.recommend("Attach quote evidence or vendor contact details")
	}

	hasSpecs := false
	for _, item := range ctx.Items {
		if len(item.Description) > minSpecLength {
			hasSpecs = true
			break
		}
	}
	if !hasSpecs {
		out.add(InsufficientSpecs, "No line item carries a usable specification")
		out.recommend("Expand line item descriptions with specs")
	}

	return out
}
