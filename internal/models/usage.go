package models

// CounterKind names a per-account usage counter.
type CounterKind string

const (
	CounterAdvisory CounterKind = "advisory"
	CounterPhone    CounterKind = "phone"
)

// nonBillableCategories never touch usage counters: administrative and
// billing board entries are not consultations.
var nonBillableCategories = map[PostCategory]struct{}{
	CategoryPhoneLog:       {},
	CategoryPaymentRequest: {},
	CategoryPlanChange:     {},
	CategoryPaymentMethod:  {},
	CategoryMemberReq:      {},
	CategoryMemberInternal: {},
	CategoryMemberAdmin:    {},
	CategoryExtraUsage:     {},
}

// BillableCounter returns the counter a category consumes, or false when
// the category is exempt. phone_request bills the phone counter; every
// other billable category bills written advisory.
func BillableCounter(category PostCategory) (CounterKind, bool) {
	if _, excluded := nonBillableCategories[category]; excluded {
		return "", false
	}
	if category == CategoryPhoneRequest {
		return CounterPhone, true
	}
	return CounterAdvisory, true
}
