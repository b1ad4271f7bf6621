package razorpay

// AmountsMatch reports whether the amount the gateway captured settles the
// amount owed. Both are integers in the same currency's minor unit and must
// match exactly; partial, over- and under-payments never settle an order.
func AmountsMatch(paidAmount, owedAmount int64) bool {
	return paidAmount == owedAmount
}
