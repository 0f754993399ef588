package invoice

// Outstanding computes the unpaid remainder of an invoice: total minus the
// sum of its payments, floored at zero. Overpayment is tolerated but never
// reported as a negative balance.
func Outstanding(totalAmount int64, payments []Payment) int64 {
	remaining := totalAmount
	for _, p := range payments {
		remaining -= p.Amount
	}

	if remaining < 0 {
		return 0
	}

	return remaining
}

// CanTransition reports whether an invoice may move between the two
// statuses. The three-state graph is deliberately unconstrained: callers may
// mark an invoice Paid while a balance remains (an externally agreed
// write-off) and may reopen or cancel freely; the only rejection is an
// unknown status.
func CanTransition(from, to Status) bool {
	return from.IsValid() && to.IsValid()
}
