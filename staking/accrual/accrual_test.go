// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAccrue(t *testing.T) {
	tests := []struct {
		name       string
		count      uint64
		rate       *big.Int
		checkpoint uint64
		now        uint64
		want       *big.Int
	}{
		{"zero elapsed", 3, big.NewInt(10), 50, 50, big.NewInt(0)},
		{"zero count", 0, big.NewInt(10), 0, 100, big.NewInt(0)},
		{"zero rate", 3, big.NewInt(0), 0, 100, big.NewInt(0)},
		{"plain", 2, big.NewInt(10), 0, 50, big.NewInt(1000)},
		{"offset checkpoint", 3, big.NewInt(10), 50, 80, big.NewInt(900)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accrue(tt.count, tt.rate, tt.checkpoint, tt.now)
			assert.Nil(t, err)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestAccrueTimeReversed(t *testing.T) {
	_, err := Accrue(1, big.NewInt(1), 100, 99)
	assert.True(t, errors.Is(err, ErrTimeReversed))
}

func TestAccrueOverflow(t *testing.T) {
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	// rate itself beyond 256 bits
	_, err := Accrue(1, new(big.Int).Add(maxUint256, big.NewInt(1)), 0, 1)
	assert.True(t, errors.Is(err, ErrOverflow))

	// count * rate overflows
	_, err = Accrue(2, maxUint256, 0, 1)
	assert.True(t, errors.Is(err, ErrOverflow))

	// (count * rate) * elapsed overflows
	_, err = Accrue(1, maxUint256, 0, 2)
	assert.True(t, errors.Is(err, ErrOverflow))

	// max value with elapsed 1 is still representable
	got, err := Accrue(1, maxUint256, 0, 1)
	assert.Nil(t, err)
	assert.Equal(t, maxUint256.String(), got.String())
}

func TestAdd(t *testing.T) {
	got, err := Add(big.NewInt(1000), big.NewInt(900))
	assert.Nil(t, err)
	assert.Equal(t, "1900", got.String())

	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	_, err = Add(maxUint256, big.NewInt(1))
	assert.True(t, errors.Is(err, ErrOverflow))
}
