// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemDB(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	key := []byte("key")
	value := []byte("value")

	_, err = db.Get(key)
	assert.True(t, db.IsNotFound(err))

	assert.Nil(t, db.Put(key, value))

	v, err := db.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, value, v)

	has, err := db.Has(key)
	assert.Nil(t, err)
	assert.True(t, has)

	assert.Nil(t, db.Delete(key))
	has, err = db.Has(key)
	assert.Nil(t, err)
	assert.False(t, has)
}

func TestBatch(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	assert.Nil(t, batch.Put([]byte("k1"), []byte("v1")))
	assert.Nil(t, batch.Put([]byte("k2"), []byte("v2")))
	assert.Equal(t, 2, batch.Len())

	// nothing visible before Write
	has, err := db.Has([]byte("k1"))
	assert.Nil(t, err)
	assert.False(t, has)

	assert.Nil(t, batch.Write())

	v, err := db.Get([]byte("k2"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v2"), v)
}
