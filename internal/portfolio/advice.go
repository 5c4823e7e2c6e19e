package portfolio

import (
	"github.com/shopspring/decimal"
)

type Bucket string

const (
	BucketAccumulating Bucket = "accumulating"
	BucketNoData       Bucket = "no_data"
	BucketDeepLoss     Bucket = "deep_loss"
	BucketHeavyLoss    Bucket = "heavy_loss"
	BucketLightLoss    Bucket = "light_loss"
	BucketBreakEven    Bucket = "break_even"
	BucketProfit       Bucket = "profit"
	BucketBigProfit    Bucket = "big_profit"
	BucketMoon         Bucket = "moon"
)

// LowAmmoThreshold is the stable share (percent) below which dry powder
// is flagged as low.
var LowAmmoThreshold = decimal.NewFromInt(10)

var roiBuckets = []struct {
	below   decimal.Decimal
	bucket  Bucket
	message string
}{
	{decimal.RequireFromString("0.3"), BucketDeepLoss, "Deeply underwater. Hold or DCA in very small size, do not bottom-fish heavily."},
	{decimal.RequireFromString("0.6"), BucketHeavyLoss, "Large loss. If fundamentals hold, consider scaling in to lower the average."},
	{decimal.RequireFromString("0.9"), BucketLightLoss, "Small loss. Range-bound, suited to grid trading."},
	{decimal.RequireFromString("1.1"), BucketBreakEven, "Near cost. Watch more, trade less, wait for direction."},
	{decimal.RequireFromString("1.5"), BucketProfit, "In profit. Hold, stop out below the average."},
	{decimal.RequireFromString("3.0"), BucketBigProfit, "Large profit. Take profit in stages, keep a core position."},
}

type Advice struct {
	Bucket  Bucket `json:"bucket"`
	Message string `json:"message"`
	LowAmmo bool   `json:"low_ammo"`
}

// Advise buckets m by ROI. stableShare is the portfolio's StableShare.
func Advise(m Metric, stableShare decimal.Decimal) Advice {
	a := Advice{LowAmmo: stableShare.LessThan(LowAmmoThreshold)}

	switch {
	case m.AverageCost.IsZero():
		a.Bucket, a.Message = BucketAccumulating, "Building a position, look for dips."
		return a
	case m.ROI.IsZero():
		a.Bucket, a.Message = BucketNoData, "Not enough data to analyse."
		return a
	}

	for _, b := range roiBuckets {
		if m.ROI.LessThan(b.below) {
			a.Bucket, a.Message = b.bucket, b.message
			return a
		}
	}
	a.Bucket, a.Message = BucketMoon, "To the moon. Gains are large, watch for a pullback."
	return a
}

// LowAmmo reports whether a non-empty portfolio holds too little in
// stablecoins.
func LowAmmo(summary Summary) bool {
	if !summary.TotalValue.IsPositive() {
		return false
	}
	return StableShare(summary.Assets).LessThan(LowAmmoThreshold)
}
