package service

// aggregateRating returns the mean of ratings rounded half up to one
// decimal, and the count.  It matches the ROUND(AVG(rating), 1) the review
// repository writes, which rounds half away from zero on exact decimals;
// ratings are positive so the two agree.
func aggregateRating(ratings []int) (float64, int) {
    if len(ratings) == 0 {
        return 0, 0
    }
    sum := 0
    for _, r := range ratings {
        sum += r
    }
    // Work in integers: mean*10 = sum*10/n, rounded half up.
    n := len(ratings)
    tenths := (sum*10*2 + n) / (2 * n)
    return float64(tenths) / 10, n
}

// Review bounds.
const (
    MinRating = 1
    MaxRating = 5
)

// CheckRating enforces the 1..5 range.
func CheckRating(r int) error {
    if r < MinRating || r > MaxRating {
        return invalid("Puan %d ile %d arasında olmalıdır", MinRating, MaxRating)
    }
    return nil
}
