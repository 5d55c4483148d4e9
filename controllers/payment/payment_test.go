package paymentController

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDollarsToCents(t *testing.T) {
	// 19.99*100 is 1998.99… in float64; truncation would drop a cent
	assert.EqualValues(t, 1999, dollarsToCents(19.99))
	assert.EqualValues(t, 1998, dollarsToCents(19.98))
	assert.EqualValues(t, 10, dollarsToCents(0.1))
	assert.EqualValues(t, 5000, dollarsToCents(50.00))
	assert.EqualValues(t, 1, dollarsToCents(0.01))
	assert.EqualValues(t, 0, dollarsToCents(0))
}
