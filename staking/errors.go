// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/pkg/errors"

// Operation failures. Every failure aborts the whole enclosing operation with
// no state change; callers can match the kind with errors.Is.
var (
	ErrEmptyInput     = errors.New("empty token list")
	ErrNotOwner       = errors.New("caller does not own token")
	ErrClaimTooEarly  = errors.New("claim delay not elapsed")
	ErrPaused         = errors.New("staking is paused")
	ErrUnauthorized   = errors.New("caller is not the administrator")
	ErrTransferFailed = errors.New("external transfer failed")
	ErrInvalidRate    = errors.New("reward rate out of range")
)
