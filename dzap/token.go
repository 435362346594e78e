// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dzap

import (
	"encoding/binary"
	"strconv"
)

// TokenID identifies a single asset of the staked collection.
type TokenID uint64

// Bytes returns the big-endian byte form of the id.
func (id TokenID) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// String implements stringer.
func (id TokenID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseTokenID converts a decimal string into TokenID type.
func ParseTokenID(s string) (TokenID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return TokenID(n), nil
}
