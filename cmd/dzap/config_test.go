// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGenesisDefaults(t *testing.T) {
	gen, err := loadGenesis("")
	require.NoError(t, err)

	admin, err := gen.admin()
	assert.Nil(t, err)
	assert.Equal(t, devAdmin, admin.String())
	custodian, err := gen.custodian()
	assert.Nil(t, err)
	assert.Equal(t, devCustodian, custodian.String())
	assert.Equal(t, "1", gen.rewardRate().String())
	assert.Equal(t, uint64(0), gen.ClaimDelay)
}

func TestLoadGenesisFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
admin: "0x0000000000000000000000000000000000000add"
custodian: "0x0000000000000000000000000000000000000ccc"
rewardRate: 10
claimDelay: 100
`), 0o600))

	gen, err := loadGenesis(path)
	require.NoError(t, err)

	admin, err := gen.admin()
	assert.Nil(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000add", admin.String())
	assert.Equal(t, "10", gen.rewardRate().String())
	assert.Equal(t, uint64(100), gen.ClaimDelay)

	_, err = loadGenesis(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGenesisBadAddress(t *testing.T) {
	gen := &genesis{Admin: "nonsense", Custodian: devCustodian}
	_, err := gen.admin()
	assert.Error(t, err)
}
