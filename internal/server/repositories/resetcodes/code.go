package resetcodes

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/samber/oops"
)

const (
	codeMin  = 100000
	codeSpan = 900000
)

// GenerateCode returns a uniformly distributed six-digit code in
// [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", oops.Code("RESET_CODE_GENERATION_FAILED").Wrap(err)
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
