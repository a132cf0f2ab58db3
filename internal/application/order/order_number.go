package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const orderNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateOrderNumber builds a human-readable order number of the form
// ORD-20260826-7GK2QX. The random suffix keeps numbers unguessable;
// uniqueness is still enforced against the repository before use.
func generateOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, 6)
	max := big.NewInt(int64(len(orderNumberCharset)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate order number: %w", err)
		}
		suffix[i] = orderNumberCharset[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), string(suffix)), nil
}
