package ledger

import (
	"github.com/shopspring/decimal"
)

// Balance derivation. Two modes that must agree:
//
//   - full recompute: Sum over every live transaction amount, used after any
//     multi-record mutation (bulk delete, import batches);
//   - incremental delta: applied for single-record add/edit/delete to avoid
//     a full scan on every write.
//
// Delta application over any sequence of single-record mutations must yield
// the same result as a full recompute of the final transaction set.

// Sum returns the sum of the given amounts. An empty input sums to zero.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// AddDelta returns the balance after a transaction with the given amount is added.
func AddDelta(balance, amount decimal.Decimal) decimal.Decimal {
	return balance.Add(amount)
}

// RemoveDelta returns the balance after a transaction with the given amount is deleted.
func RemoveDelta(balance, amount decimal.Decimal) decimal.Decimal {
	return balance.Sub(amount)
}

// EditDelta returns the signed balance change caused by editing a
// transaction's amount from oldAmount to newAmount.
func EditDelta(oldAmount, newAmount decimal.Decimal) decimal.Decimal {
	return newAmount.Sub(oldAmount)
}

// GoalProgress returns balance/target clamped to [0, 1]. Targets are
// validated to be strictly positive at goal creation, so a non-positive
// target here reports zero progress rather than guessing.
func GoalProgress(balance, target decimal.Decimal) decimal.Decimal {
	if target.Sign() <= 0 {
		return decimal.Zero
	}
	progress := balance.DivRound(target, 6)
	if progress.Sign() < 0 {
		return decimal.Zero
	}
	one := decimal.NewFromInt(1)
	if progress.GreaterThan(one) {
		return one
	}
	return progress
}
