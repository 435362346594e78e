// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalmathuri/dzap/dzap"
	"github.com/vishalmathuri/dzap/kv"
	"github.com/vishalmathuri/dzap/lvldb"
	"github.com/vishalmathuri/dzap/staking/custody"
	"github.com/vishalmathuri/dzap/state"
)

var (
	admin     = dzap.MustParseAddress("0x0000000000000000000000000000000000000add")
	custodian = dzap.MustParseAddress("0x0000000000000000000000000000000000000ccc")
	alice     = dzap.MustParseAddress("0xf077b491b355e64048ce21e3a6fc4751eeea77fa")
	bob       = dzap.MustParseAddress("0x435933c8064b4ae76be665428e0307ef2ccfbd68")
)

type nftCall struct {
	from, to dzap.Address
	id       dzap.TokenID
}

type mockNFT struct {
	calls  []nftCall
	failOn map[dzap.TokenID]error
}

func (m *mockNFT) TransferFrom(from, to dzap.Address, id dzap.TokenID) error {
	if err := m.failOn[id]; err != nil {
		return err
	}
	m.calls = append(m.calls, nftCall{from, to, id})
	return nil
}

type payout struct {
	to     dzap.Address
	amount *big.Int
}

type mockToken struct {
	payouts []payout
	err     error
}

func (m *mockToken) Transfer(to dzap.Address, amount *big.Int) error {
	if m.err != nil {
		return m.err
	}
	m.payouts = append(m.payouts, payout{to, new(big.Int).Set(amount)})
	return nil
}

// rate 10 per token per block, claim delay 100 blocks
func newTestEngine(t *testing.T) (*Staking, *mockToken, *mockNFT) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)

	token := &mockToken{}
	nft := &mockNFT{failOn: make(map[dzap.TokenID]error)}

	engine := New(state.New(db), Config{Admin: admin, Custodian: custodian}, token, nft)
	require.NoError(t, engine.Bootstrap(big.NewInt(10), 100))
	return engine, token, nft
}

func TestBootstrap(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	rate, err := engine.RewardRate()
	assert.Nil(t, err)
	assert.Equal(t, "10", rate.String())

	delay, err := engine.ClaimDelay()
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), delay)

	// a second bootstrap must not clobber live parameters
	require.NoError(t, engine.SetRewardRate(admin, big.NewInt(99)))
	require.NoError(t, engine.Bootstrap(big.NewInt(10), 100))

	rate, err = engine.RewardRate()
	assert.Nil(t, err)
	assert.Equal(t, "99", rate.String())
}

func TestStake(t *testing.T) {
	engine, _, nft := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1, 2}, 0))

	rec, err := engine.Depositor(alice)
	assert.Nil(t, err)
	assert.Equal(t, []dzap.TokenID{1, 2}, rec.Tokens)
	assert.Equal(t, 0, rec.Pending.Sign())

	owner, held, err := engine.OwnerOf(1)
	assert.Nil(t, err)
	assert.True(t, held)
	assert.Equal(t, alice, owner)

	count, err := engine.CustodyCount()
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), count)

	// assets moved depositor -> custodian
	assert.Equal(t, []nftCall{
		{alice, custodian, 1},
		{alice, custodian, 2},
	}, nft.calls)
}

func TestStakeEmptyInput(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	err := engine.Stake(alice, nil, 0)
	assert.True(t, errors.Is(err, ErrEmptyInput))
	err = engine.Unstake(alice, []dzap.TokenID{}, 0)
	assert.True(t, errors.Is(err, ErrEmptyInput))
}

func TestStakeAlreadyCustodied(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1}, 0))

	err := engine.Stake(bob, []dzap.TokenID{1}, 10)
	assert.True(t, errors.Is(err, custody.ErrAlreadyCustodied))

	// duplicate within one batch rolls the whole batch back
	err = engine.Stake(bob, []dzap.TokenID{5, 5}, 10)
	assert.True(t, errors.Is(err, custody.ErrAlreadyCustodied))

	rec, err := engine.Depositor(bob)
	assert.Nil(t, err)
	assert.True(t, rec.IsEmpty())

	count, err := engine.CustodyCount()
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)
}

// the worked scenario: stake, grow, shrink, claim
func TestStakeUnstakeClaim(t *testing.T) {
	engine, token, nft := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1, 2}, 0))
	require.NoError(t, engine.Stake(alice, []dzap.TokenID{3}, 50))

	// 2 tokens * 10 * 50 blocks settled before the set grew
	rec, err := engine.Depositor(alice)
	assert.Nil(t, err)
	assert.Equal(t, "1000", rec.Pending.String())
	assert.Equal(t, uint64(50), rec.LastBlock)

	require.NoError(t, engine.Unstake(alice, []dzap.TokenID{2}, 80))

	// 1000 + 3 tokens * 10 * 30 blocks, priced before the withdrawal
	rec, err = engine.Depositor(alice)
	assert.Nil(t, err)
	assert.Equal(t, "1900", rec.Pending.String())
	assert.Equal(t, []dzap.TokenID{1, 3}, rec.Tokens)

	at, marked, err := engine.UnbondingStartedAt(2)
	assert.Nil(t, err)
	assert.True(t, marked)
	assert.Equal(t, uint64(80), at)

	assert.Equal(t, nftCall{custodian, alice, 2}, nft.calls[len(nft.calls)-1])

	// last checkpoint is 80, delay 100: claimable from block 180
	amount, err := engine.ClaimRewards(alice, 200)
	assert.Nil(t, err)
	// 1900 + 2 tokens * 10 * 120 blocks
	assert.Equal(t, "4300", amount.String())
	assert.Equal(t, []payout{{alice, big.NewInt(4300)}}, token.payouts)

	rec, err = engine.Depositor(alice)
	assert.Nil(t, err)
	assert.Equal(t, 0, rec.Pending.Sign())
	assert.Equal(t, uint64(200), rec.LastBlock)

	claimed, err := engine.TotalClaimed()
	assert.Nil(t, err)
	assert.Equal(t, "4300", claimed.String())
}

func TestUnstakeNotOwner(t *testing.T) {
	engine, _, nft := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1}, 0))
	transfers := len(nft.calls)

	err := engine.Unstake(bob, []dzap.TokenID{1}, 50)
	assert.True(t, errors.Is(err, ErrNotOwner))

	// never custodied looks the same as owned-by-someone-else
	err = engine.Unstake(bob, []dzap.TokenID{9}, 50)
	assert.True(t, errors.Is(err, ErrNotOwner))

	// nothing moved, nothing changed
	assert.Equal(t, transfers, len(nft.calls))
	owner, held, err := engine.OwnerOf(1)
	assert.Nil(t, err)
	assert.True(t, held)
	assert.Equal(t, alice, owner)

	rec, err := engine.Depositor(bob)
	assert.Nil(t, err)
	assert.True(t, rec.IsEmpty())
	assert.Equal(t, 0, rec.Pending.Sign())
}

func TestUnstakePartialBatchRollsBack(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1, 2}, 0))

	// 2 is fine, 9 is not hers; the whole batch must unwind
	err := engine.Unstake(alice, []dzap.TokenID{2, 9}, 50)
	assert.True(t, errors.Is(err, ErrNotOwner))

	rec, err := engine.Depositor(alice)
	assert.Nil(t, err)
	assert.Equal(t, []dzap.TokenID{1, 2}, rec.Tokens)
	assert.Equal(t, 0, rec.Pending.Sign(), "settlement of the failed batch must unwind too")

	count, err := engine.CustodyCount()
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestClaimDelay(t *testing.T) {
	engine, token, _ := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1}, 0))

	_, err := engine.ClaimRewards(alice, 99)
	assert.True(t, errors.Is(err, ErrClaimTooEarly))
	assert.Zero(t, len(token.payouts))

	// boundary: elapsed == delay is allowed
	amount, err := engine.ClaimRewards(alice, 100)
	assert.Nil(t, err)
	assert.Equal(t, "1000", amount.String())

	// the claim advanced the checkpoint, so the delay starts over
	_, err = engine.ClaimRewards(alice, 150)
	assert.True(t, errors.Is(err, ErrClaimTooEarly))
}

func TestClaimResidualAfterFullUnstake(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1}, 0))
	require.NoError(t, engine.Unstake(alice, []dzap.TokenID{1}, 50))

	// pending reward survives the empty staked set
	amount, err := engine.ClaimRewards(alice, 150)
	assert.Nil(t, err)
	assert.Equal(t, "500", amount.String())
}

func TestStakeTransferFailed(t *testing.T) {
	engine, _, nft := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1}, 0))

	nft.failOn[3] = errors.New("wallet rejected")
	err := engine.Stake(alice, []dzap.TokenID{2, 3}, 50)
	assert.True(t, errors.Is(err, ErrTransferFailed))

	// the batch unwound: no phantom custody of 2, settlement undone
	rec, err := engine.Depositor(alice)
	assert.Nil(t, err)
	assert.Equal(t, []dzap.TokenID{1}, rec.Tokens)
	assert.Equal(t, 0, rec.Pending.Sign())
	assert.Equal(t, uint64(0), rec.LastBlock)

	_, held, err := engine.OwnerOf(2)
	assert.Nil(t, err)
	assert.False(t, held)

	count, err := engine.CustodyCount()
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestClaimPayoutFailed(t *testing.T) {
	engine, token, _ := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1}, 0))

	token.err = errors.New("bridge down")
	_, err := engine.ClaimRewards(alice, 100)
	assert.True(t, errors.Is(err, ErrTransferFailed))

	// drained reward restored, nothing counted as claimed
	rec, err := engine.Depositor(alice)
	assert.Nil(t, err)
	assert.Equal(t, 0, rec.Pending.Sign())
	assert.Equal(t, uint64(0), rec.LastBlock, "failed claim must not advance the checkpoint")

	claimed, err := engine.TotalClaimed()
	assert.Nil(t, err)
	assert.Equal(t, 0, claimed.Sign())

	// retry once the payout path recovers
	token.err = nil
	amount, err := engine.ClaimRewards(alice, 100)
	assert.Nil(t, err)
	assert.Equal(t, "1000", amount.String())
}

func TestRewardRateProspective(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1}, 0))
	require.NoError(t, engine.Stake(alice, []dzap.TokenID{2}, 50))

	// 500 settled at the old rate stays settled
	require.NoError(t, engine.SetRewardRate(admin, big.NewInt(20)))

	amount, err := engine.ClaimRewards(alice, 150)
	assert.Nil(t, err)
	// 500 + 2 tokens * 20 * 100 blocks
	assert.Equal(t, "4500", amount.String())
}

func TestSetRewardRateValidation(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	err := engine.SetRewardRate(admin, nil)
	assert.True(t, errors.Is(err, ErrInvalidRate))
	err = engine.SetRewardRate(admin, big.NewInt(-1))
	assert.True(t, errors.Is(err, ErrInvalidRate))
	err = engine.SetRewardRate(admin, new(big.Int).Lsh(big.NewInt(1), 256))
	assert.True(t, errors.Is(err, ErrInvalidRate))

	assert.Nil(t, engine.SetRewardRate(admin, big.NewInt(0)), "zero rate is valid")
}

func TestAdminOnly(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	assert.True(t, errors.Is(engine.SetRewardRate(alice, big.NewInt(1)), ErrUnauthorized))
	assert.True(t, errors.Is(engine.SetClaimDelay(alice, 1), ErrUnauthorized))
	assert.True(t, errors.Is(engine.Pause(alice), ErrUnauthorized))
	assert.True(t, errors.Is(engine.Unpause(alice), ErrUnauthorized))

	// rejected calls change nothing
	delay, err := engine.ClaimDelay()
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), delay)
}

func TestSetClaimDelay(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1}, 0))

	// effective for claims already waiting
	require.NoError(t, engine.SetClaimDelay(admin, 10))
	amount, err := engine.ClaimRewards(alice, 10)
	assert.Nil(t, err)
	assert.Equal(t, "100", amount.String())
}

// total staked across depositors always equals assets in custody
func TestCustodyConservation(t *testing.T) {
	engine, _, nft := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1, 2, 3}, 0))
	require.NoError(t, engine.Stake(bob, []dzap.TokenID{4, 5}, 10))
	require.NoError(t, engine.Unstake(alice, []dzap.TokenID{2}, 20))

	nft.failOn[6] = errors.New("nope")
	_ = engine.Stake(bob, []dzap.TokenID{6}, 30)
	_ = engine.Unstake(bob, []dzap.TokenID{1}, 30)

	var staked uint64
	for _, addr := range []dzap.Address{alice, bob} {
		rec, err := engine.Depositor(addr)
		require.NoError(t, err)
		staked += rec.StakeCount()
	}
	count, err := engine.CustodyCount()
	assert.Nil(t, err)
	assert.Equal(t, staked, count)
	assert.Equal(t, uint64(4), count)
}

func TestEvents(t *testing.T) {
	engine, _, nft := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1, 2}, 0))
	require.NoError(t, engine.Unstake(alice, []dzap.TokenID{2}, 80))

	// failed operations emit nothing
	nft.failOn[9] = errors.New("nope")
	_ = engine.Stake(alice, []dzap.TokenID{9}, 90)

	amount, err := engine.ClaimRewards(alice, 200)
	require.NoError(t, err)

	events := engine.Events(0)
	require.Equal(t, 3, len(events))
	assert.Equal(t, EventStaked, events[0].Name)
	assert.Equal(t, []dzap.TokenID{1, 2}, events[0].Tokens)
	assert.Equal(t, EventUnstaked, events[1].Name)
	assert.Equal(t, uint64(80), events[1].Time)
	assert.Equal(t, EventRewardsClaimed, events[2].Name)
	assert.Equal(t, amount, events[2].Amount)

	// limited reads return the most recent, oldest first
	events = engine.Events(2)
	require.Equal(t, 2, len(events))
	assert.Equal(t, EventUnstaked, events[0].Name)
	assert.Equal(t, EventRewardsClaimed, events[1].Name)
}

// unstableStore fails the next batch write once.
type unstableStore struct {
	kv.GetPutCloser
	failNextWrite bool
}

func (s *unstableStore) NewBatch() kv.Batch {
	if s.failNextWrite {
		s.failNextWrite = false
		return brokenBatch{s.GetPutCloser.NewBatch()}
	}
	return s.GetPutCloser.NewBatch()
}

type brokenBatch struct{ kv.Batch }

func (brokenBatch) Write() error { return errors.New("disk full") }

func TestCommitFailureRollsBack(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	store := &unstableStore{GetPutCloser: db}

	token := &mockToken{}
	nft := &mockNFT{failOn: make(map[dzap.TokenID]error)}
	engine := New(state.New(store), Config{Admin: admin, Custodian: custodian}, token, nft)
	require.NoError(t, engine.Bootstrap(big.NewInt(10), 100))

	store.failNextWrite = true
	assert.Error(t, engine.Stake(alice, []dzap.TokenID{1}, 0))

	// the failed stake must not ride along with the next commit
	require.NoError(t, engine.Stake(bob, []dzap.TokenID{2}, 10))

	rec, err := engine.Depositor(alice)
	assert.Nil(t, err)
	assert.True(t, rec.IsEmpty())

	_, held, err := engine.OwnerOf(1)
	assert.Nil(t, err)
	assert.False(t, held)

	owner, held, err := engine.OwnerOf(2)
	assert.Nil(t, err)
	assert.True(t, held)
	assert.Equal(t, bob, owner)

	count, err := engine.CustodyCount()
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)

	// and emits no event
	for _, ev := range engine.Events(0) {
		assert.NotEqual(t, alice, ev.Depositor)
	}
}

func TestRestakeAfterUnstake(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	require.NoError(t, engine.Stake(alice, []dzap.TokenID{1}, 0))
	require.NoError(t, engine.Unstake(alice, []dzap.TokenID{1}, 50))
	require.NoError(t, engine.Stake(bob, []dzap.TokenID{1}, 60))

	owner, held, err := engine.OwnerOf(1)
	assert.Nil(t, err)
	assert.True(t, held)
	assert.Equal(t, bob, owner)

	// the old unbonding mark survives until the next withdrawal
	at, marked, err := engine.UnbondingStartedAt(1)
	assert.Nil(t, err)
	assert.True(t, marked)
	assert.Equal(t, uint64(50), at)
}
